package events

import (
	"context"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/mailservice"
)

// Каналы доставки уведомлений (метрики)
const (
	channelEmail = "email"
	channelLive  = "live"

	statusOK     = "ok"
	statusFailed = "failed"
)

// MailSender отправляет письма по шаблону
type MailSender interface {
	SendTemplate(ctx context.Context, template string, recipientID int64, fields ...string) error
}

// Publisher рассылает события live-подписчикам
type Publisher interface {
	Publish(event ReservationEvent)
}

// Metrics счетчики уведомлений
type Metrics interface {
	IncNotification(channel, status string)
}

// DispatcherLogger интерфейс логгера диспетчера
type DispatcherLogger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Dispatcher рассылает уведомления об изменениях броней: письма через
// mail-сервис и события в live-канал. Вызывается после фиксации
// транзакции; любая ошибка доставки логируется и проглатывается —
// уведомления не могут провалить бизнес-операцию.
type Dispatcher struct {
	mail    MailSender
	broker  Publisher
	metrics Metrics
	log     DispatcherLogger
}

// NewDispatcher создает новый диспетчер уведомлений.
// metrics может быть nil, если сбор метрик выключен.
func NewDispatcher(mail MailSender, broker Publisher, metrics Metrics, log DispatcherLogger) *Dispatcher {
	return &Dispatcher{
		mail:    mail,
		broker:  broker,
		metrics: metrics,
		log:     log,
	}
}

// ReservationCreated уведомляет исполнителя о новой заявке
func (d *Dispatcher) ReservationCreated(ctx context.Context, res *domain.Reservation, providerUserID int64) {
	d.sendMail(ctx, mailservice.TemplateReservationRequested, providerUserID,
		res.Date.Format(domain.DateFormat), string(res.StartTime), string(res.EndTime))
	d.publish(res, EventReservationCreated)
}

// ReservationAccepted уведомляет заказчика о подтверждении брони
func (d *Dispatcher) ReservationAccepted(ctx context.Context, res *domain.Reservation) {
	d.sendMail(ctx, mailservice.TemplateReservationAccepted, res.UserID,
		res.Date.Format(domain.DateFormat), string(res.StartTime), string(res.EndTime))
	d.publish(res, EventReservationAccepted)
}

// ReservationReassigned уведомляет заказчика о переназначении брони
// и нового исполнителя о поступившей заявке
func (d *Dispatcher) ReservationReassigned(ctx context.Context, res *domain.Reservation, newProviderUserID int64) {
	d.sendMail(ctx, mailservice.TemplateReservationReassigned, res.UserID,
		res.Date.Format(domain.DateFormat), string(res.StartTime), string(res.EndTime))
	d.sendMail(ctx, mailservice.TemplateReservationRequested, newProviderUserID,
		res.Date.Format(domain.DateFormat), string(res.StartTime), string(res.EndTime))
	d.publish(res, EventReservationReassigned)
}

// ReservationRejected уведомляет заказчика об отклонении брони,
// когда замену найти не удалось
func (d *Dispatcher) ReservationRejected(ctx context.Context, res *domain.Reservation) {
	d.sendMail(ctx, mailservice.TemplateReservationRejected, res.UserID,
		res.Date.Format(domain.DateFormat), string(res.StartTime), string(res.EndTime))
	d.publish(res, EventReservationRejected)
}

// ReservationCancelled уведомляет противоположную сторону об отмене брони:
// исполнителя при отмене заказчиком, заказчика при отмене исполнителем
func (d *Dispatcher) ReservationCancelled(ctx context.Context, res *domain.Reservation, recipientUserID int64) {
	d.sendMail(ctx, mailservice.TemplateReservationCancelled, recipientUserID,
		res.Date.Format(domain.DateFormat), string(res.StartTime), string(res.EndTime))
	d.publish(res, EventReservationCancelled)
}

// ReservationCompleted публикует завершение брони в live-канал.
// Почтового шаблона для завершения нет, письмо не отправляется.
func (d *Dispatcher) ReservationCompleted(_ context.Context, res *domain.Reservation) {
	d.publish(res, EventReservationCompleted)
}

func (d *Dispatcher) sendMail(ctx context.Context, template string, recipientID int64, fields ...string) {
	if err := d.mail.SendTemplate(ctx, template, recipientID, fields...); err != nil {
		d.log.Error("dispatcher: failed to send %s to user %d: %v", template, recipientID, err)
		d.observe(channelEmail, statusFailed)
		return
	}
	d.log.Info("dispatcher: sent %s to user %d", template, recipientID)
	d.observe(channelEmail, statusOK)
}

func (d *Dispatcher) publish(res *domain.Reservation, eventType EventType) {
	d.broker.Publish(ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		UserID:        res.UserID,
		ProviderID:    res.ProviderID,
		Area:          res.UserArea,
		Date:          res.Date.Format(domain.DateFormat),
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Status:        string(res.Status),
	})
	d.observe(channelLive, statusOK)
}

func (d *Dispatcher) observe(channel, status string) {
	if d.metrics == nil {
		return
	}
	d.metrics.IncNotification(channel, status)
}
