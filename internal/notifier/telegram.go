package notifier

import (
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/questkit/jobscout/internal/entities"
	"github.com/questkit/jobscout/internal/events"
	"github.com/questkit/jobscout/internal/logger"
	log "github.com/sirupsen/logrus"
)

type telegramApi interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Telegram pushes alert batches to a single chat. It is a bus
// subscriber, the alert engine does not know it exists.
type Telegram struct {
	api    telegramApi
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	notifier := &Telegram{api: api, chatID: chatID}
	if err = bus.Subscribe(events.JobsFoundTopic, notifier.onJobsFound); err != nil {
		return nil, err
	}
	return notifier, nil
}

func (t *Telegram) onJobsFound(event events.JobsFound) {
	msg := botApi.NewMessage(t.chatID, formatBatch(event.Alert, event.Jobs))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).
			Errorf("error occured while sending message: %v", err)
	}
}

func formatBatch(alert entities.Alert, jobs []entities.Job) string {

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d new jobs for %q:\n", len(jobs), alert.Query))

	for i, job := range jobs {
		if i == 10 {
			b.WriteString(fmt.Sprintf("...and %d more\n", len(jobs)-i))
			break
		}
		b.WriteString(fmt.Sprintf("%v at %v", job.Title, job.Company))
		if job.ApplyURL != "" {
			b.WriteString("\n" + job.ApplyURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
