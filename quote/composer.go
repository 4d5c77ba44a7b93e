package quote

// DefaultSubject is used when a Destination leaves Subject empty.
const DefaultSubject = "3D Printing Request"

// Destination is where a finished quote request is delivered.
type Destination struct {
	Email          string `json:"email"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Subject        string `json:"subject"`
}

// Message is the outbound quote request in every form the contact panel offers.
type Message struct {
	DisplayMessage      string `json:"display_message"`
	EmailSubjectEncoded string `json:"email_subject_encoded"`
	EmailBodyEncoded    string `json:"email_body_encoded"`
	WhatsAppLink        string `json:"whatsapp_link"`
	MailtoLink          string `json:"mailto_link"`
}

// Composer renders drafts into messages. It holds no state beyond the
// destination and is safe for concurrent use.
type Composer struct {
	dest Destination
}

// NewComposer creates a composer for dest.
func NewComposer(dest Destination) *Composer {
	if dest.Subject == "" {
		dest.Subject = DefaultSubject
	}
	return &Composer{dest: dest}
}

// Destination returns the configured destination.
func (c *Composer) Destination() Destination {
	return c.dest
}

// Compose derives the message for d. Unset fields are replaced by
// ReferencePlaceholder and PricePlaceholder.
func (c *Composer) Compose(d Draft) Message {
	text := DisplayText(d)
	subject := EncodeURIComponent(c.dest.Subject)
	body := EncodeURIComponent(text)

	return Message{
		DisplayMessage:      text,
		EmailSubjectEncoded: subject,
		EmailBodyEncoded:    body,
		WhatsAppLink:        "https://wa.me/" + c.dest.WhatsAppNumber + "?text=" + body,
		MailtoLink:          "mailto:" + c.dest.Email + "?subject=" + subject + "&body=" + body,
	}
}

// DisplayText is the human-readable request line for d.
func DisplayText(d Draft) string {
	ref := d.ModelReference
	if ref == "" {
		ref = ReferencePlaceholder
	}
	price := d.EstimatedPrice
	if price == "" {
		price = PricePlaceholder
	}
	return "Hi, make it an " + ref + " . Price offering: " + price
}
