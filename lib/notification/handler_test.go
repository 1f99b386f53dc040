package notificationhandler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	portal := "https://portal.example.com"

	t.Run("submitted", func(t *testing.T) {
		subject, body := render(Message{
			Kind: KindRequestSubmitted,
			Params: map[string]string{
				"request_kind": "time off",
				"employee":     "Alice Black (alice@example.com)",
				"details":      "Vacation, 2026-01-12 to 2026-01-16 (5 working days)",
				"link":         "/timeoff/abc",
			},
		}, portal)
		require.Equal(t, "New time off request from Alice Black (alice@example.com)", subject)
		require.Contains(t, body, "5 working days")
		require.Contains(t, body, portal+"/timeoff/abc")
	})

	t.Run("rejected includes reason", func(t *testing.T) {
		subject, body := render(Message{
			Kind: KindRequestRejected,
			Params: map[string]string{
				"request_kind": "business trip",
				"actor":        "manager@example.com",
				"reason":       "budget is not justified",
			},
		}, portal)
		require.Equal(t, "Your business trip request was rejected", subject)
		require.Contains(t, body, "budget is not justified")
		require.Contains(t, body, "manager@example.com")
	})

	t.Run("no link falls back to portal root", func(t *testing.T) {
		_, body := render(Message{
			Kind:   KindRequestApproved,
			Params: map[string]string{"request_kind": "asset"},
		}, portal)
		require.Contains(t, body, portal)
	})

	t.Run("unknown kind", func(t *testing.T) {
		subject, body := render(Message{
			Kind:   Kind("nonsense"),
			Params: map[string]string{"details": "plain text"},
		}, portal)
		require.Equal(t, "HR Portal notification", subject)
		require.Equal(t, "plain text", body)
	})
}

func TestNotifyQueue(t *testing.T) {
	t.Run("disabled drops silently", func(t *testing.T) {
		h := &impl{queue: make(chan Message, 1), enabled: false}
		h.Notify(Message{Kind: KindRequestSubmitted})
		require.Len(t, h.queue, 0)
	})

	t.Run("full queue never blocks", func(t *testing.T) {
		h := &impl{queue: make(chan Message, 1), enabled: true}
		h.Notify(Message{Kind: KindRequestSubmitted})
		h.Notify(Message{Kind: KindManagerApproved})
		require.Len(t, h.queue, 1)
		queued := <-h.queue
		require.Equal(t, KindRequestSubmitted, queued.Kind)
	})
}
