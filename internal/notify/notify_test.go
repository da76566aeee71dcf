package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.SendEmailOutput)
	return out, args.Error(1)
}

func newTemplates(t *testing.T) *Templates {
	t.Helper()
	tmpl, err := NewTemplates("ExtraSITE", "Medianeira - PR", "https://extrasite.com")
	require.NoError(t, err)
	return tmpl
}

func TestTemplates_RenderEveryKind(t *testing.T) {
	tmpl := newTemplates(t)
	data := map[string]any{
		"Name": "Ana", "Company": "Buffet Iguaçu", "Title": "Garçom para casamento", "CNPJ": "11222333000181",
		"Date": "20/11/2026", "Window": "19:00-23:00", "Address": "Rua Paraná, 100", "Pay": 120.0, "NetPay": 102.0,
	}

	assert.Len(t, tmpl.Kinds(), 9)
	for _, kind := range tmpl.Kinds() {
		rendered, err := tmpl.Render(kind, data)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, rendered.Subject, kind)
		assert.Contains(t, rendered.HTML, "ExtraSITE", kind)
	}
}

func TestTemplates_AcceptedContainsDetails(t *testing.T) {
	rendered, err := newTemplates(t).Render(KindApplicationAccept, map[string]any{
		"Name": "Ana", "Company": "Buffet <Iguaçu>", "Title": "Bartender", "Date": "20/11/2026",
		"Window": "19:00-23:00", "Address": "Rua Paraná, 100", "Pay": 150.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Você foi selecionado: Bartender", rendered.Subject)
	assert.Contains(t, rendered.HTML, "R$ 150.50")
	assert.Contains(t, rendered.HTML, "Buffet &lt;Iguaçu&gt;")
}

func TestTemplates_UnknownKind(t *testing.T) {
	_, err := newTemplates(t).Render(Kind("desconhecido"), nil)
	assert.Error(t, err)
}

func TestMailer_NotifySendsInBackground(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, newTemplates(t))

	mailer.Notify("ana@utfpr.edu.br", KindWelcomeSeeker, map[string]any{"Name": "Ana"})
	mailer.Notify("", KindWelcomeSeeker, map[string]any{"Name": "ninguém"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	mailer.Wait(ctx)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@utfpr.edu.br", sender.sent[0].To)
	assert.Equal(t, "Bem-vindo(a) ao ExtraSITE!", sender.sent[0].Subject)
}

func TestMailer_NotifyAfterWaitIsDropped(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, newTemplates(t))

	mailer.Wait(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mailer.Notify("ana@utfpr.edu.br", KindWelcomeSeeker, map[string]any{"Name": "Ana"})
		}()
	}
	wg.Wait()
	mailer.Wait(context.Background())

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Empty(t, sender.sent)
}

func TestMailer_ConcurrentNotifyAndWait(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, newTemplates(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mailer.Notify("ana@utfpr.edu.br", KindWelcomeSeeker, map[string]any{"Name": "Ana"})
		}()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	mailer.Wait(ctx)
	wg.Wait()

	// с -race ловит Add, пересёкшийся с Wait
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.LessOrEqual(t, len(sender.sent), 20)
}

func TestMailer_SendFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	mailer := NewMailer(sender, newTemplates(t))

	assert.NotPanics(t, func() {
		mailer.Notify("ana@utfpr.edu.br", KindApplicationDecline, map[string]any{"Name": "Ana", "Title": "Garçom"})
		mailer.Wait(context.Background())
	})
}

func TestSESSender_BuildsInput(t *testing.T) {
	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return *in.Source == "ExtraSITE <noreply@extrasite.com>" &&
			in.Destination.ToAddresses[0] == "ana@utfpr.edu.br" &&
			*in.Message.Subject.Data == "Olá" &&
			*in.Message.Body.Html.Data == "<p>oi</p>"
	})).Return(&ses.SendEmailOutput{}, nil).Once()

	sender := NewSESSenderWithClient(client, "ExtraSITE <noreply@extrasite.com>")
	err := sender.Send(context.Background(), Message{To: "ana@utfpr.edu.br", Subject: "Olá", HTML: "<p>oi</p>"})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSESSender_WrapsError(t *testing.T) {
	client := &mockSES{}
	boom := errors.New("throttled")
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewSESSenderWithClient(client, "noreply@extrasite.com").
		Send(context.Background(), Message{To: "x@y.com"})
	assert.ErrorIs(t, err, boom)
}
