package fulfillment

import (
	"fmt"
	"strings"
)

// WebhookRequest is the subset of a Dialogflow ES fulfillment request this
// service reads.
type WebhookRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText    string         `json:"queryText"`
	LanguageCode string         `json:"languageCode,omitempty"`
	Parameters   map[string]any `json:"parameters"`
	Intent       Intent         `json:"intent"`
}

type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// Param returns a parameter as a string. Dialogflow sends a list for
// parameters marked "is list" and a struct for composite system entities;
// the first element or the nested "date_time" value is used.
func (q QueryResult) Param(name string) string {
	return stringValue(q.Parameters[name])
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		if len(t) == 0 {
			return ""
		}
		return stringValue(t[0])
	case map[string]any:
		for _, k := range []string{"date_time", "startDateTime", "startTime", "startDate"} {
			if s := stringValue(t[k]); s != "" {
				return s
			}
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// WebhookResponse is the Dialogflow ES fulfillment response.
type WebhookResponse struct {
	FulfillmentText     string    `json:"fulfillmentText"`
	FulfillmentMessages []Message `json:"fulfillmentMessages,omitempty"`
	Source              string    `json:"source,omitempty"`
}

type Message struct {
	Text    *Text    `json:"text,omitempty"`
	Payload *Payload `json:"payload,omitempty"`
}

type Text struct {
	Text []string `json:"text"`
}

// Payload is a raw channel payload sent as its own message.
type Payload struct {
	Hangouts *Card `json:"hangouts,omitempty"`
}

// Reply is what the formatter produces for one conversational turn.
type Reply struct {
	Text string
	Card *Card
}

// WebhookResponse renders the reply in the Dialogflow wire format: a text
// message, followed by the hangouts card payload when there is one.
func (r Reply) WebhookResponse() WebhookResponse {
	resp := WebhookResponse{
		FulfillmentText:     r.Text,
		FulfillmentMessages: []Message{{Text: &Text{Text: []string{r.Text}}}},
	}
	if r.Card != nil {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{
			Payload: &Payload{Hangouts: r.Card},
		})
	}
	return resp
}
