package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/config"
)

type recordingClient struct {
	templateID string
	params     map[string]string
	err        error
}

func (r *recordingClient) Send(_ context.Context, templateID string, params map[string]string) error {
	r.templateID = templateID
	r.params = params
	return r.err
}

func TestEmailJSSender_Send(t *testing.T) {
	client := &recordingClient{}
	s := NewEmailJSSender(client, map[Template]string{TemplateVerification: "tpl_code"})

	err := s.Send(context.Background(), Message{
		To:       "a@b.tn",
		Name:     "Amel",
		Template: TemplateVerification,
		Vars:     map[string]string{"code": "654321"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tpl_code", client.templateID)
	assert.Equal(t, "a@b.tn", client.params["to_email"])
	assert.Equal(t, "Amel", client.params["to_name"])
	assert.Equal(t, "654321", client.params["code"])
}

func TestEmailJSSender_UnknownTemplate(t *testing.T) {
	s := NewEmailJSSender(&recordingClient{}, map[Template]string{})
	err := s.Send(context.Background(), Message{To: "a@b.tn", Template: TemplatePasswordReset})
	assert.Error(t, err)
}

func TestEmailJSSender_WrapsClientError(t *testing.T) {
	boom := errors.New("boom")
	s := NewEmailJSSender(&recordingClient{err: boom}, map[Template]string{TemplateVerification: "tpl"})
	err := s.Send(context.Background(), Message{To: "a@b.tn", Template: TemplateVerification})
	assert.ErrorIs(t, err, boom)
}

func TestNewSender_FallsBackToLog(t *testing.T) {
	s := NewSender(config.MailConfig{})
	_, ok := s.(LogSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), Message{To: "a@b.tn"}))
}
