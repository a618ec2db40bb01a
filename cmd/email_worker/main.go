package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/driveup/account-service/config"
	"github.com/driveup/account-service/internal/mail"
)

// Consumes welcome-email jobs from RabbitMQ and delivers them via Mailgun.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	sender := mail.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("email worker consuming from %q", cfg.RabbitMQEmailQueue)
	for {
		select {
		case <-quit:
			log.Println("email worker shutting down")
			return
		case d, ok := <-msgs:
			if !ok {
				log.Println("amqp channel closed")
				return
			}
			var job mail.EmailJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Printf("bad job payload, dropping: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := sender.Send(ctx, job.To, job.Subject, job.Text)
			cancel()
			if err != nil {
				log.Printf("send to %s failed: %v", job.To, err)
				// retry once; drop on redelivery
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
