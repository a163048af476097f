package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/queue"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+": "+message)
	return nil
}

func blockStatusJob(t *testing.T, p queue.BlockStatusPayload) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return &queue.Job{ID: "job-1", Type: queue.JobTypeBlockStatus, Payload: raw}
}

func TestProcessBlockStatusSends(t *testing.T) {
	sender := &fakeSender{}
	w := New(nil, sender, zap.NewNop())

	job := blockStatusJob(t, queue.BlockStatusPayload{
		BlockID: 11, BlockTitle: "Åpning", Status: "active", Phone: "4799887766",
	})
	require.NoError(t, w.process(context.Background(), job))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "4799887766")
	assert.Contains(t, sender.sent[0], "Åpning")
}

func TestProcessBlockStatusWithoutPhoneLogsOnly(t *testing.T) {
	sender := &fakeSender{}
	w := New(nil, sender, zap.NewNop())

	job := blockStatusJob(t, queue.BlockStatusPayload{BlockID: 11, Status: "completed"})
	require.NoError(t, w.process(context.Background(), job))
	assert.Empty(t, sender.sent)
}

func TestProcessBlockStatusSendFailurePropagates(t *testing.T) {
	sender := &fakeSender{err: errors.New("gateway down")}
	w := New(nil, sender, zap.NewNop())

	job := blockStatusJob(t, queue.BlockStatusPayload{BlockID: 11, Phone: "4799887766"})
	assert.Error(t, w.process(context.Background(), job))
}

func TestProcessDropsMalformedPayload(t *testing.T) {
	sender := &fakeSender{}
	w := New(nil, sender, zap.NewNop())

	job := &queue.Job{ID: "job-2", Type: queue.JobTypeBlockStatus, Payload: []byte("{")}
	assert.NoError(t, w.process(context.Background(), job), "poison jobs are dropped, not retried")
	assert.Empty(t, sender.sent)
}

func TestProcessDropsUnknownJobType(t *testing.T) {
	w := New(nil, &fakeSender{}, zap.NewNop())
	job := &queue.Job{ID: "job-3", Type: "mystery", Payload: []byte("{}")}
	assert.NoError(t, w.process(context.Background(), job))
}
