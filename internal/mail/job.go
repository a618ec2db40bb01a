package mail

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// WelcomeJob builds the welcome email enqueued after registration.
func WelcomeJob(email, name string) EmailJob {
	greet := name
	if greet == "" {
		greet = email
	}
	return EmailJob{
		To:      email,
		Subject: "Welcome aboard",
		Text:    "Hi " + greet + ",\n\nYour account is ready. You can now sign in with your Google account and upload a profile picture.\n",
	}
}
