package fulfillment

// Card is a Hangouts Chat card. Field names are the channel's wire format.
type Card struct {
	Name     string     `json:"name"`
	Header   CardHeader `json:"header"`
	Sections []Section  `json:"sections"`
}

type CardHeader struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ImageURL   string `json:"imageUrl"`
	ImageStyle string `json:"imageStyle"`
}

type Section struct {
	Widgets []Widget `json:"widgets"`
}

// Widget holds exactly one of its fields.
type Widget struct {
	KeyValue *KeyValue `json:"keyValue,omitempty"`
	Image    *Image    `json:"image,omitempty"`
	Buttons  []Button  `json:"buttons,omitempty"`
}

type KeyValue struct {
	Content     string `json:"content"`
	BottomLabel string `json:"bottomLabel"`
}

type Image struct {
	ImageURL string   `json:"imageUrl"`
	OnClick  *OnClick `json:"onClick,omitempty"`
}

type Button struct {
	TextButton *TextButton `json:"textButton,omitempty"`
}

type TextButton struct {
	Text    string  `json:"text"`
	OnClick OnClick `json:"onClick"`
}

type OnClick struct {
	OpenLink OpenLink `json:"openLink"`
}

type OpenLink struct {
	URL string `json:"url"`
}

func openLink(url string) OnClick {
	return OnClick{OpenLink: OpenLink{URL: url}}
}

func confirmationCard(appointmentType, date, clock, iconURL, mapURL, calendarURL string) *Card {
	mapClick := openLink(mapURL)
	return &Card{
		Name: "Confirmation Card",
		Header: CardHeader{
			Title:      "Appointment Confirmation",
			Subtitle:   appointmentType,
			ImageURL:   iconURL,
			ImageStyle: "IMAGE",
		},
		Sections: []Section{{
			Widgets: []Widget{
				{KeyValue: &KeyValue{Content: "Date", BottomLabel: date}},
				{KeyValue: &KeyValue{Content: "Time", BottomLabel: clock}},
				{Image: &Image{ImageURL: mapURL, OnClick: &mapClick}},
				{Buttons: []Button{{TextButton: &TextButton{
					Text:    "View Appointment",
					OnClick: openLink(calendarURL),
				}}}},
			},
		}},
	}
}
