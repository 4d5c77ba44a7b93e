package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/llm/gemini"
	"github.com/mak3d/quotedesk/testutil"
	"github.com/mak3d/quotedesk/testutil/mocks"
	"github.com/mak3d/quotedesk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAgent(gen *mocks.MockGenerator) *Agent {
	return NewAgent(gen, ConfigFrom(config.DefaultChatConfig(), config.DefaultGeminiConfig()), zap.NewNop())
}

func TestAgent_Greeting(t *testing.T) {
	conv := testAgent(mocks.NewMockGenerator()).NewConversation()
	assert.Equal(t, []gemini.Message{{Role: "model", Text: "Mak3d AI Online. How can I help?"}}, conv.Transcript())
}

func TestAgent_StreamsReply(t *testing.T) {
	gen := mocks.NewMockGenerator().WithStreamChunks("Use ", "0.2mm ", "layers.")
	agent := testAgent(gen)
	conv := agent.NewConversation()

	var deltas []string
	reply, err := agent.Send(testutil.TestContext(t), conv, "Best layer height for PLA?", func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Use 0.2mm layers.", reply)
	assert.Equal(t, []string{"Use ", "0.2mm ", "layers."}, deltas)

	call := gen.StreamCalls()[0]
	assert.Equal(t, "gemini-2.5-flash", call.Model)
	assert.Equal(t, "You are a 3D printing support agent. Be concise and industrial.", call.System)
	// The greeting is display-only and never replayed to the model.
	assert.Equal(t, []gemini.Message{{Role: "user", Text: "Best layer height for PLA?"}}, call.History)

	assert.Len(t, conv.Transcript(), 3)
	assert.False(t, conv.Busy())
}

func TestAgent_ReplaysHistory(t *testing.T) {
	gen := mocks.NewMockGenerator().WithStreamChunks("ok")
	agent := testAgent(gen)
	conv := agent.NewConversation()
	ctx := testutil.TestContext(t)

	_, err := agent.Send(ctx, conv, "first", nil)
	require.NoError(t, err)
	_, err = agent.Send(ctx, conv, "second", nil)
	require.NoError(t, err)

	assert.Equal(t, []gemini.Message{
		{Role: "user", Text: "first"},
		{Role: "model", Text: "ok"},
		{Role: "user", Text: "second"},
	}, gen.StreamCalls()[1].History)
}

func TestAgent_BlankInputIgnored(t *testing.T) {
	gen := mocks.NewMockGenerator()
	agent := testAgent(gen)
	conv := agent.NewConversation()

	reply, err := agent.Send(testutil.TestContext(t), conv, "   ", nil)
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Empty(t, gen.StreamCalls())
	assert.Len(t, conv.Transcript(), 1)
}

func TestAgent_ErrorReply(t *testing.T) {
	gen := mocks.NewMockGenerator().
		WithStreamChunks("partial").
		WithStreamError(types.NewError(types.ErrUpstreamQuota, "quota"))
	agent := testAgent(gen)
	conv := agent.NewConversation()

	_, err := agent.Send(testutil.TestContext(t), conv, "hello", nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrUpstreamQuota, types.GetErrorCode(err))

	tr := conv.Transcript()
	assert.Equal(t, gemini.Message{Role: "model", Text: "System Error."}, tr[len(tr)-1])

	// Failed exchanges are not replayed.
	gen.WithStreamError(nil)
	_, err = agent.Send(testutil.TestContext(t), conv, "again", nil)
	require.NoError(t, err)
	assert.Equal(t, []gemini.Message{{Role: "user", Text: "again"}}, gen.StreamCalls()[1].History)
}

func TestAgent_OnDeltaAbort(t *testing.T) {
	gen := mocks.NewMockGenerator().WithStreamChunks("a", "b")
	agent := testAgent(gen)

	_, err := agent.Send(testutil.TestContext(t), agent.NewConversation(), "hi", func(string) error {
		return context.Canceled
	})
	require.Error(t, err)
	assert.Equal(t, types.ErrCanceled, types.GetErrorCode(err))
}

func TestAgent_RejectsConcurrentTurn(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := mocks.NewMockGenerator().WithStreamFunc(
		func(ctx context.Context, _ gemini.ChatRequest, _ func(string) error) (string, error) {
			close(entered)
			<-release
			return "done", nil
		})
	agent := testAgent(gen)
	conv := agent.NewConversation()

	done := make(chan error, 1)
	go func() {
		_, err := agent.Send(context.Background(), conv, "one", nil)
		done <- err
	}()
	<-entered

	_, err := agent.Send(context.Background(), conv, "two", nil)
	assert.ErrorIs(t, err, ErrTurnInProgress)

	close(release)
	err, ok := testutil.WaitForChannel(done, 2*time.Second)
	require.True(t, ok)
	assert.NoError(t, err)
}

func TestTrimHistory(t *testing.T) {
	var h []gemini.Message
	for i := 0; i < 5; i++ {
		h = append(h,
			gemini.Message{Role: "user", Text: fmt.Sprint("q", i)},
			gemini.Message{Role: "model", Text: fmt.Sprint("a", i)})
	}

	got := trimHistory(h, 5)
	require.Len(t, got, 4)
	assert.Equal(t, "q3", got[0].Text)
	assert.Equal(t, h, trimHistory(h, 0))
	assert.Equal(t, h, trimHistory(h, 100))
}

func TestAgent_UntypedErrorMapped(t *testing.T) {
	gen := mocks.NewMockGenerator().WithStreamError(errors.New("stream broke"))
	agent := testAgent(gen)

	_, err := agent.Send(testutil.TestContext(t), agent.NewConversation(), "hi", nil)
	assert.Equal(t, types.ErrUpstreamError, types.GetErrorCode(err))
}
