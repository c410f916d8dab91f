package job

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	topic, key, value string
}

type fakePublisher struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (p *fakePublisher) SendMessage(topic, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, value: value})
	return nil
}

func TestOutboxSenderPublishesPending(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewOutboxRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Enqueue(ctx, nil, "deposit.completed", "sec-1", map[string]string{"amount": "150.00"}))
	require.NoError(t, repo.Enqueue(ctx, nil, "user.deleted", "user-9", map[string]int{"user_id": 9}))

	pub := &fakePublisher{}
	sender := NewOutboxSender(db, pub, testutil.Config())
	sender.ProcessPendingMessages(ctx)

	require.Len(t, pub.sent, 2)
	assert.Equal(t, sentMessage{"deposit.completed", "sec-1", `{"amount":"150.00"}`}, pub.sent[0])
	assert.Equal(t, "user-9", pub.sent[1].key)
	assert.Equal(t, int64(2), testutil.Count(t, db, &model.OutboxMessage{}, "status = ?", model.OutboxStatusSent))

	// 已发送的消息不会再次投递
	sender.ProcessPendingMessages(ctx)
	assert.Len(t, pub.sent, 2)
}

func TestOutboxSenderMarksFailedAfterRetries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewOutboxRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Enqueue(ctx, nil, "deposit.completed", "sec-1", map[string]string{}))

	cfg := testutil.Config()
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	sender := NewOutboxSender(db, pub, cfg)

	for i := 0; i < cfg.Business.MaxRetryCount-1; i++ {
		sender.ProcessPendingMessages(ctx)
		assert.Equal(t, int64(1), testutil.Count(t, db, &model.OutboxMessage{}, "status = ?", model.OutboxStatusPending))
	}

	sender.ProcessPendingMessages(ctx)
	var msg model.OutboxMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, model.OutboxStatusFailed, msg.Status)
	assert.Equal(t, cfg.Business.MaxRetryCount, msg.RetryCount)
}

func TestOutboxSenderStops(t *testing.T) {
	db := testutil.NewDB(t)
	sender := NewOutboxSender(db, &fakePublisher{}, testutil.Config())

	done := make(chan struct{})
	go func() {
		sender.Start(context.Background())
		close(done)
	}()
	sender.Stop()
	<-done
}
