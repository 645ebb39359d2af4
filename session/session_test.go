package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentEvent(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:   discordgo.InteractionMessageComponent,
			Data:   discordgo.MessageComponentInteractionData{CustomID: customID},
			Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
		},
	}
}

func TestDispatchRoutesToHandler(t *testing.T) {
	m := NewManager()
	sess := m.Start(Options{ID: "123", Timeout: time.Minute})

	var calls int
	sess.Handle("next", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {
		calls++
	})

	assert.True(t, m.Dispatch(nil, componentEvent("123:next", "u1")))
	assert.Equal(t, 1, calls)

	// Unregistered component of a live session is claimed but ignored.
	assert.True(t, m.Dispatch(nil, componentEvent("123:bogus", "u1")))
	assert.Equal(t, 1, calls)

	// Unknown session id is not claimed.
	assert.False(t, m.Dispatch(nil, componentEvent("999:next", "u1")))
}

func TestDispatchFiltersByUser(t *testing.T) {
	m := NewManager()
	sess := m.Start(Options{ID: "123", UserID: "owner", Timeout: time.Minute})

	var calls int
	sess.Handle("check", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {
		calls++
	})

	assert.True(t, m.Dispatch(nil, componentEvent("123:check", "intruder")))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, sess.Collected())

	assert.True(t, m.Dispatch(nil, componentEvent("123:check", "owner")))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, sess.Collected())
}

func TestResolveIsExactlyOnce(t *testing.T) {
	m := NewManager()
	sess := m.Start(Options{ID: "123", Timeout: time.Minute})

	var calls int
	sess.Handle("submit", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {
		calls++
	})

	assert.True(t, sess.Resolve())
	assert.False(t, sess.Resolve(), "second resolve must lose")

	// Events after the terminal transition are ignored.
	assert.False(t, m.Dispatch(nil, componentEvent("123:submit", "u1")))
	assert.Equal(t, 0, calls)
}

func TestExpiryReportsCollectedCount(t *testing.T) {
	m := NewManager()
	expired := make(chan int, 1)
	sess := m.Start(Options{
		ID:      "123",
		Timeout: 30 * time.Millisecond,
		OnExpire: func(collected int) {
			expired <- collected
		},
	})
	sess.Handle("next", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {})

	require.True(t, m.Dispatch(nil, componentEvent("123:next", "u1")))

	select {
	case collected := <-expired:
		assert.Equal(t, 1, collected)
	case <-time.After(time.Second):
		t.Fatal("session never expired")
	}

	// The expired session no longer claims events.
	assert.False(t, m.Dispatch(nil, componentEvent("123:next", "u1")))
}

func TestResolvePreventsExpiry(t *testing.T) {
	m := NewManager()
	expired := make(chan int, 1)
	sess := m.Start(Options{
		ID:      "123",
		Timeout: 30 * time.Millisecond,
		OnExpire: func(collected int) {
			expired <- collected
		},
	})

	require.True(t, sess.Resolve())

	select {
	case <-expired:
		t.Fatal("resolved session must not expire")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDispatchSerializesHandlers(t *testing.T) {
	m := NewManager()
	sess := m.Start(Options{ID: "123", Timeout: time.Minute})

	var inFlight, overlapped int32
	// Written without further locking: per-session serialization is the lock.
	var picked string
	sess.Handle("select", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {
		if atomic.AddInt32(&inFlight, 1) > 1 {
			atomic.StoreInt32(&overlapped, 1)
		}
		picked += "x"
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	})

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Dispatch(nil, componentEvent("123:select", "u1"))
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlapped), "handlers of one session must not overlap")
	assert.Equal(t, "xxxxxxxx", picked)
	assert.Equal(t, 8, sess.Collected())
}

func TestEventQueuedBehindResolveIsSwallowed(t *testing.T) {
	m := NewManager()
	sess := m.Start(Options{ID: "123", Timeout: time.Minute})

	entered := make(chan struct{})
	release := make(chan struct{})
	var checks int32
	sess.Handle("check", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, cur *Session) {
		if atomic.AddInt32(&checks, 1) == 1 {
			close(entered)
			<-release
			require.True(t, cur.Resolve())
		}
	})

	go m.Dispatch(nil, componentEvent("123:check", "u1"))
	<-entered

	// Second press lands while the first is still being handled.
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Dispatch(nil, componentEvent("123:check", "u1"))
	}()
	time.Sleep(10 * time.Millisecond)
	close(release)
	<-done

	assert.Equal(t, int32(1), atomic.LoadInt32(&checks), "second press must not re-run the handler after resolve")
}

func TestBoundaryEventReArmsExpiry(t *testing.T) {
	m := NewManager()
	expired := make(chan int, 1)
	sess := m.Start(Options{
		ID:           "123",
		Timeout:      50 * time.Millisecond,
		ResetOnEvent: true,
		OnExpire: func(collected int) {
			expired <- collected
		},
	})
	sess.Handle("next", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {})

	require.True(t, m.Dispatch(nil, componentEvent("123:next", "u1")))
	// Timer firing right as the event lands must not end the session.
	sess.expire()

	select {
	case <-expired:
		t.Fatal("session terminated despite a fresh event")
	case <-time.After(20 * time.Millisecond):
	}

	select {
	case collected := <-expired:
		assert.Equal(t, 1, collected)
	case <-time.After(time.Second):
		t.Fatal("session never expired after quiescence")
	}
}

func TestResetOnEventExtendsWindow(t *testing.T) {
	m := NewManager()
	expired := make(chan int, 1)
	sess := m.Start(Options{
		ID:           "123",
		Timeout:      60 * time.Millisecond,
		ResetOnEvent: true,
		OnExpire: func(collected int) {
			expired <- collected
		},
	})
	sess.Handle("next", func(_ *discordgo.Session, _ *discordgo.InteractionCreate, _ *Session) {})

	// Keep the session busy past its original window.
	for n := 0; n < 3; n++ {
		time.Sleep(40 * time.Millisecond)
		require.True(t, m.Dispatch(nil, componentEvent("123:next", "u1")))
	}

	select {
	case <-expired:
		t.Fatal("window should have been extended by navigation")
	case <-time.After(20 * time.Millisecond):
	}

	select {
	case collected := <-expired:
		assert.Equal(t, 3, collected)
	case <-time.After(time.Second):
		t.Fatal("session never expired after quiescence")
	}
}
