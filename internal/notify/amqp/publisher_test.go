package amqp_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/notify/amqp"
)

type fakeChannel struct {
	declared   []string
	published  []amqp091.Publishing
	keys       []string
	declareErr error
	publishErr error
	closed     bool
	deadline   bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp091.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return c.declareErr
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	_, c.deadline = ctx.Deadline()
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)

	return c.publishErr
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

var alert = finance.Alert{
	Category: "Housing",
	Percent:  decimal.NewFromInt(94),
	Message:  "Alert: budget for Housing at 94% of limit",
	RaisedAt: time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC),
}

func TestPublisher_PublishAlert(t *testing.T) {
	ch := &fakeChannel{}

	p, err := amqp.NewPublisher(ch, "finboard", "budget.alert", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, []string{"finboard:direct"}, ch.declared)

	require.NoError(t, p.PublishAlert(context.Background(), alert))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"budget.alert"}, ch.keys)
	assert.True(t, ch.deadline)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp091.Persistent, ch.published[0].DeliveryMode)

	var msg amqp.AlertMessage
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &msg))
	assert.Equal(t, "Housing", msg.Category)
	assert.True(t, msg.Percent.Equal(decimal.NewFromInt(94)))
	assert.Equal(t, alert.Message, msg.Message)
	assert.True(t, alert.RaisedAt.Equal(msg.RaisedAt))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_Errors(t *testing.T) {
	t.Run("DeclareFails", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}

		_, err := amqp.NewPublisher(ch, "finboard", "budget.alert", slog.New(slog.DiscardHandler))
		require.ErrorContains(t, err, "declare exchange")
		assert.True(t, ch.closed)
	})

	t.Run("PublishFails", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}

		p, err := amqp.NewPublisher(ch, "finboard", "budget.alert", slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		err = p.PublishAlert(context.Background(), alert)
		require.ErrorContains(t, err, "publish alert")
	})
}

func TestPublisher_ImplementsFinancePublisher(t *testing.T) {
	var _ finance.Publisher = (*amqp.Publisher)(nil)
}
