package dto

// SMTPTestRequest carries credentials for a connection probe.
type SMTPTestRequest struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
}

// SMTPTestResponse reports probe outcome.
type SMTPTestResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
