package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"mime"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender delivers mail through the Gmail API on behalf of one mailbox.
type GmailSender struct {
	svc  *gmail.Service
	from string
}

var _ Sender = (*GmailSender)(nil)

// NewGmailSender builds a sender from the OAuth client file and a saved token file.
func NewGmailSender(ctx context.Context, credentialsFile, tokenFile, from string) (*GmailSender, error) {
	// 1. Read the OAuth client (the app's identity)
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read gmail client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse gmail client secret file: %w", err)
	}

	// 2. Load the mailbox token saved by a previous consent flow
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read gmail token %s: %w", tokenFile, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}
	return &GmailSender{svc: svc, from: from}, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func (g *GmailSender) Send(ctx context.Context, to, subject, body string) error {
	raw := buildRawMessage(g.from, to, subject, body)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	if _, err := g.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}
	return nil
}

func buildRawMessage(from, to, subject, body string) string {
	var sb strings.Builder
	if from != "" {
		sb.WriteString("From: " + from + "\r\n")
	}
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return sb.String()
}

// LogSender writes mail to the process log instead of delivering it.
type LogSender struct{}

var _ Sender = LogSender{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("LogSender: to=%s subject=%q\n%s", to, subject, body)
	return nil
}
