package emailjs

// SendRequest is the body of the EmailJS send endpoint.
type SendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`                // public key
	AccessToken    string            `json:"accessToken,omitempty"` // private key, server side only
	TemplateParams map[string]string `json:"template_params"`
}
