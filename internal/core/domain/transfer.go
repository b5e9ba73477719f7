package domain

// TransferType tags the kind of payload being transferred.
type TransferType string

// Known transfer payload kinds.
const (
	TransferText        TransferType = "text"
	TransferContact     TransferType = "contact"
	TransferCredentials TransferType = "credentials"
	TransferLink        TransferType = "link"
)

// Valid reports whether t is a known transfer type.
func (t TransferType) Valid() bool {
	switch t {
	case TransferText, TransferContact, TransferCredentials, TransferLink:
		return true
	}
	return false
}

// TransferData is the payload a sender offers through a pairing session.
type TransferData struct {
	Type    TransferType `json:"type"`
	Content string       `json:"content"`
	Title   string       `json:"title,omitempty"`
}

// Validate checks the payload against constraints.
func (d TransferData) Validate() error {
	if !d.Type.Valid() {
		return ErrInvalidArgument.WithDetails("type must be one of text, contact, credentials, link")
	}
	if d.Content == "" {
		return ErrMissingArgument.WithDetails("content is required")
	}
	if len(d.Content) > MaxContentLength {
		return ErrInvalidArgument.WithDetails("content exceeds 8KB")
	}
	if len(d.Title) > MaxTitleLength {
		return ErrInvalidArgument.WithDetails("title exceeds 256 characters")
	}
	return nil
}
