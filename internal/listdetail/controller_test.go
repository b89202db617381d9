package listdetail

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/notify"
)

type summary struct {
	ID     string
	Status bool
}

type record struct {
	ID     string
	Photos []string
	Docs   []string
}

var testResource = Resource[summary, record]{
	Name:   "things",
	Noun:   "Thing",
	ID:     func(s summary) string { return s.ID },
	Status: func(s summary) bool { return s.Status },
	Galleries: func(r record) []Gallery {
		return []Gallery{
			{Key: "photos", Title: "Photos", Images: r.Photos},
			{Key: "docs", Title: "Documents", Images: r.Docs},
		}
	},
}

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type statusCall struct {
	ID     string
	Status bool
}

// fakeRemote answers from canned envelopes and records every call.
type fakeRemote struct {
	mu sync.Mutex

	list    []gateway.Envelope[[]summary]
	listErr error
	records map[string]gateway.Envelope[record]
	getErr  error
	status  gateway.Envelope[json.RawMessage]
	statErr error
	del     gateway.Envelope[json.RawMessage]
	delErr  error

	// gate, when set, blocks the named operation until a value is received.
	gate map[string]chan struct{}

	listCalls   int
	getCalls    []string
	statusCalls []statusCall
	deleteCalls []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		records: map[string]gateway.Envelope[record]{},
		gate:    map[string]chan struct{}{},
		status:  gateway.Envelope[json.RawMessage]{Success: true},
		del:     gateway.Envelope[json.RawMessage]{Success: true},
	}
}

func (f *fakeRemote) wait(op string) {
	f.mu.Lock()
	ch := f.gate[op]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (f *fakeRemote) List(ctx context.Context) (gateway.Envelope[[]summary], error) {
	f.mu.Lock()
	f.listCalls++
	var env gateway.Envelope[[]summary]
	if len(f.list) > 0 {
		env = f.list[0]
		if len(f.list) > 1 {
			f.list = f.list[1:]
		}
	}
	err := f.listErr
	f.mu.Unlock()
	f.wait("list")
	return env, err
}

func (f *fakeRemote) Get(ctx context.Context, id string) (gateway.Envelope[record], error) {
	f.mu.Lock()
	f.getCalls = append(f.getCalls, id)
	env, ok := f.records[id]
	err := f.getErr
	f.mu.Unlock()
	f.wait("get:" + id)
	if !ok && err == nil {
		return gateway.Envelope[record]{Success: false, Message: "not found"}, nil
	}
	return env, err
}

func (f *fakeRemote) SetStatus(ctx context.Context, id string, status bool) (gateway.Envelope[json.RawMessage], error) {
	f.mu.Lock()
	f.statusCalls = append(f.statusCalls, statusCall{ID: id, Status: status})
	env, err := f.status, f.statErr
	f.mu.Unlock()
	f.wait("status")
	return env, err
}

func (f *fakeRemote) Delete(ctx context.Context, id string) (gateway.Envelope[json.RawMessage], error) {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, id)
	env, err := f.del, f.delErr
	f.mu.Unlock()
	f.wait("delete")
	return env, err
}

func succeed[T any](data T) gateway.Envelope[T] {
	return gateway.Envelope[T]{Success: true, Data: data}
}

type note struct {
	Level notify.Level
	Text  string
}

type recorder struct {
	mu    sync.Mutex
	notes []note
}

func (r *recorder) Notify(level notify.Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{Level: level, Text: text})
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

func newTestController(t *testing.T, remote *fakeRemote) (*Controller[summary, record], *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(testResource, remote, rec, zap.NewNop()), rec
}

func TestLoad_ReplacesCollection(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{
		succeed([]summary{{ID: "a"}, {ID: "b"}, {ID: "c"}}),
		succeed([]summary{{ID: "d"}}),
	}
	c, _ := newTestController(t, remote)

	items, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []summary{{ID: "d"}}, items)
	assert.Equal(t, []summary{{ID: "d"}}, c.Items())
	_, found := c.Find("a")
	assert.False(t, found)
}

func TestLoad_DropsDuplicateIDs(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{
		succeed([]summary{{ID: "a", Status: true}, {ID: "b"}, {ID: "a"}}),
	}
	c, _ := newTestController(t, remote)

	items, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []summary{{ID: "a", Status: true}, {ID: "b"}}, items)
}

func TestLoad_EmptyData(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "a"}}), succeed[[]summary](nil)}
	c, rec := newTestController(t, remote)

	_, err := c.Load(context.Background())
	require.NoError(t, err)
	items, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, rec.all())
}

func TestLoad_LoadingFlagSettles(t *testing.T) {
	tests := []struct {
		name     string
		env      gateway.Envelope[[]summary]
		err      error
		wantKind FailureKind
		wantNote note
	}{
		{
			name: "success",
			env:  succeed([]summary{{ID: "a"}}),
		},
		{
			name:     "logical failure with message",
			env:      gateway.Envelope[[]summary]{Success: false, Message: "maintenance"},
			wantKind: FailureLogical,
			wantNote: note{Level: notify.LevelWarning, Text: "maintenance"},
		},
		{
			name:     "logical failure without message",
			env:      gateway.Envelope[[]summary]{Success: false},
			wantKind: FailureLogical,
			wantNote: note{Level: notify.LevelWarning, Text: "Could not load things."},
		},
		{
			name:     "transport failure",
			err:      &gateway.TransportError{Method: "GET", Path: "/things", Err: errors.New("connection refused")},
			wantKind: FailureTransport,
			wantNote: note{Level: notify.LevelError, Text: "Network error. Check your connection and the API URL."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			remote.list = []gateway.Envelope[[]summary]{tt.env}
			remote.listErr = tt.err
			c, rec := newTestController(t, remote)

			_, err := c.Load(context.Background())
			assert.False(t, c.Loading())
			assert.False(t, c.Busy())

			if tt.wantNote == (note{}) {
				require.NoError(t, err)
				assert.Empty(t, rec.all())
				return
			}
			var failure *Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tt.wantKind, failure.Kind)
			assert.Equal(t, tt.wantNote.Text, failure.Message)
			assert.True(t, IsReported(err))
			assert.Equal(t, []note{tt.wantNote}, rec.all())
		})
	}
}

func TestLoad_FailureKeepsPreviousCollection(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{
		succeed([]summary{{ID: "a"}}),
		{Success: false, Message: "nope"},
	}
	c, _ := newTestController(t, remote)

	_, err := c.Load(context.Background())
	require.NoError(t, err)
	_, err = c.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, []summary{{ID: "a"}}, c.Items())
}

func TestLoading_TrueWhileFetchOutstanding(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "a"}})}
	release := make(chan struct{})
	remote.gate["list"] = release
	c, _ := newTestController(t, remote)

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background())
		done <- err
	}()

	assert.Eventually(t, c.Loading, waitFor, tick)
	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Loading())
}

func TestToggle_SendsNegatedStatusAndRefetches(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{
		succeed([]summary{{ID: "1", Status: true}, {ID: "2", Status: false}}),
		succeed([]summary{{ID: "1", Status: true}, {ID: "2", Status: true}}),
	}
	c, rec := newTestController(t, remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Toggle(context.Background(), "2"))

	assert.Equal(t, []statusCall{{ID: "2", Status: true}}, remote.statusCalls)
	assert.Equal(t, 2, remote.listCalls)
	got, found := c.Find("2")
	require.True(t, found)
	assert.True(t, got.Status)
	assert.Equal(t, []note{{Level: notify.LevelSuccess, Text: "Thing activated successfully!"}}, rec.all())
	assert.False(t, c.Loading())
}

func TestToggle_Deactivate(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "1", Status: true}})}
	c, rec := newTestController(t, remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Toggle(context.Background(), "1"))
	assert.Equal(t, []statusCall{{ID: "1", Status: false}}, remote.statusCalls)
	assert.Equal(t, "Thing deactivated successfully!", rec.all()[0].Text)
}

func TestToggle_FailureLeavesCollection(t *testing.T) {
	tests := []struct {
		name      string
		env       gateway.Envelope[json.RawMessage]
		err       error
		wantLevel notify.Level
		wantText  string
	}{
		{
			name:      "logical",
			env:       gateway.Envelope[json.RawMessage]{Success: false, Message: "locked"},
			wantLevel: notify.LevelWarning,
			wantText:  "locked",
		},
		{
			name:      "server message on error status",
			err:       &gateway.APIError{Method: "POST", Path: "/things/1", StatusCode: 409, ServerMessage: "conflict"},
			wantLevel: notify.LevelError,
			wantText:  "conflict",
		},
		{
			name:      "timeout",
			err:       &gateway.TransportError{Method: "POST", Path: "/things/1", Err: context.DeadlineExceeded},
			wantLevel: notify.LevelError,
			wantText:  "Request timed out.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "1"}, {ID: "2"}})}
			remote.status = tt.env
			remote.statErr = tt.err
			c, rec := newTestController(t, remote)
			_, err := c.Load(context.Background())
			require.NoError(t, err)

			err = c.Toggle(context.Background(), "1")
			require.Error(t, err)
			assert.True(t, IsReported(err))
			assert.Equal(t, 1, remote.listCalls)
			assert.Equal(t, []summary{{ID: "1"}, {ID: "2"}}, c.Items())
			assert.Equal(t, []note{{Level: tt.wantLevel, Text: tt.wantText}}, rec.all())
			assert.False(t, c.Busy())
		})
	}
}

func TestToggle_UnknownID(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "1"}})}
	c, rec := newTestController(t, remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	err = c.Toggle(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.False(t, IsReported(err))
	assert.Empty(t, remote.statusCalls)
	assert.Equal(t, []note{{Level: notify.LevelError, Text: "Thing missing is not in the list."}}, rec.all())
}

func TestToggle_RefusedWhileBusy(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "1"}})}
	c, rec := newTestController(t, remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	release := make(chan struct{})
	remote.gate["status"] = release
	done := make(chan error, 1)
	go func() { done <- c.Toggle(context.Background(), "1") }()
	assert.Eventually(t, c.Busy, waitFor, tick)

	assert.ErrorIs(t, c.Toggle(context.Background(), "1"), ErrBusy)
	c.RequestDelete(summary{ID: "1"})
	assert.ErrorIs(t, c.ConfirmDelete(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, remote.statusCalls, 1)
	assert.Empty(t, remote.deleteCalls)
	assert.Contains(t, rec.all(), note{Level: notify.LevelWarning, Text: busyMessage})
}

func TestOpen_ResetsDetail(t *testing.T) {
	remote := newFakeRemote()
	remote.records["A"] = succeed(record{ID: "A", Photos: []string{"a1", "a2", "a3"}})
	remote.records["B"] = succeed(record{ID: "B", Photos: []string{"b1", "b2"}})
	c, _ := newTestController(t, remote)

	_, err := c.Open(context.Background(), "A")
	require.NoError(t, err)
	require.NoError(t, c.SelectImage("photos", 2))

	got, err := c.Open(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "B", got.ID)

	snap := c.Snapshot()
	assert.Equal(t, DetailOpen, snap.Detail.State)
	assert.Equal(t, "B", snap.Detail.ID)
	assert.Equal(t, "B", snap.Detail.Record.ID)
	for _, g := range snap.Detail.Galleries {
		assert.Zero(t, g.Cursor, g.Key)
	}
	assert.Equal(t, "b1", snap.Detail.Galleries[0].Current())
}

func TestOpen_SelectThenClose(t *testing.T) {
	remote := newFakeRemote()
	remote.records["7"] = succeed(record{ID: "7", Photos: []string{"x.jpg", "y.jpg", "z.jpg"}})
	c, _ := newTestController(t, remote)

	_, err := c.Open(context.Background(), "7")
	require.NoError(t, err)
	require.NoError(t, c.SelectImage("photos", 1))
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Detail.Galleries[0].Cursor)
	assert.Equal(t, "y.jpg", snap.Detail.Galleries[0].Current())

	c.CloseDetail()
	snap = c.Snapshot()
	assert.False(t, snap.Detail.Visible())
	assert.Empty(t, snap.Detail.ID)
	assert.Empty(t, snap.Detail.Galleries)
	assert.ErrorIs(t, c.SelectImage("photos", 0), ErrDetailClosed)

	c.CloseDetail()
	assert.Equal(t, DetailClosed, c.Snapshot().Detail.State)
}

func TestOpen_FailureStaysClosed(t *testing.T) {
	remote := newFakeRemote()
	c, rec := newTestController(t, remote)

	_, err := c.Open(context.Background(), "ghost")
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureLogical, failure.Kind)
	assert.Equal(t, DetailClosed, c.Snapshot().Detail.State)
	assert.False(t, c.Loading())
	assert.Equal(t, []note{{Level: notify.LevelWarning, Text: "not found"}}, rec.all())

	remote.getErr = &gateway.TransportError{Method: "GET", Path: "/things/ghost", Err: context.Canceled}
	_, err = c.Open(context.Background(), "ghost")
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureTransport, failure.Kind)
	assert.Equal(t, "Request cancelled.", failure.Message)
}

func TestOpen_SupersededResponseDiscarded(t *testing.T) {
	remote := newFakeRemote()
	remote.records["old"] = succeed(record{ID: "old", Photos: []string{"o"}})
	remote.records["new"] = succeed(record{ID: "new", Photos: []string{"n"}})
	release := make(chan struct{})
	remote.gate["get:old"] = release
	c, rec := newTestController(t, remote)

	done := make(chan error, 1)
	go func() {
		_, err := c.Open(context.Background(), "old")
		done <- err
	}()
	assert.Eventually(t, func() bool {
		return c.Snapshot().Detail.State == DetailLoading
	}, waitFor, tick)

	_, err := c.Open(context.Background(), "new")
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)
	snap := c.Snapshot()
	assert.Equal(t, "new", snap.Detail.Record.ID)
	assert.False(t, snap.Loading)
	assert.Empty(t, rec.all())
}

func TestGalleries_IndependentCursors(t *testing.T) {
	remote := newFakeRemote()
	remote.records["1"] = succeed(record{ID: "1", Photos: []string{"p0", "p1", "p2"}, Docs: []string{"d0", "d1"}})
	c, _ := newTestController(t, remote)
	_, err := c.Open(context.Background(), "1")
	require.NoError(t, err)

	require.NoError(t, c.SelectImage("photos", 2))
	require.NoError(t, c.NextImage("docs"))

	snap := c.Snapshot()
	assert.Equal(t, "p2", snap.Detail.Galleries[0].Current())
	assert.Equal(t, "d1", snap.Detail.Galleries[1].Current())
}

func TestGalleries_Bounds(t *testing.T) {
	remote := newFakeRemote()
	remote.records["1"] = succeed(record{ID: "1", Photos: []string{"p0", "p1", "p2"}})
	c, _ := newTestController(t, remote)
	_, err := c.Open(context.Background(), "1")
	require.NoError(t, err)

	assert.ErrorIs(t, c.SelectImage("photos", 3), ErrCursorOutOfRange)
	assert.ErrorIs(t, c.SelectImage("photos", -1), ErrCursorOutOfRange)
	assert.ErrorIs(t, c.SelectImage("docs", 0), ErrCursorOutOfRange)
	assert.ErrorIs(t, c.SelectImage("videos", 0), ErrUnknownGallery)
	assert.Zero(t, c.Snapshot().Detail.Galleries[0].Cursor)

	require.NoError(t, c.PrevImage("photos"))
	assert.Equal(t, "p2", c.Snapshot().Detail.Galleries[0].Current())
	require.NoError(t, c.NextImage("photos"))
	assert.Equal(t, "p0", c.Snapshot().Detail.Galleries[0].Current())

	require.NoError(t, c.NextImage("docs"))
	assert.Equal(t, "", c.Snapshot().Detail.Galleries[1].Current())
}

func TestDelete_ConfirmRefetchesOnce(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{
		succeed([]summary{{ID: "1"}, {ID: "2"}}),
		succeed([]summary{{ID: "1"}}),
	}
	c, rec := newTestController(t, remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.RequestDeleteID("2"))
	pending := c.Snapshot().PendingDeletion
	require.NotNil(t, pending)
	assert.Equal(t, "2", pending.ID)

	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Equal(t, []string{"2"}, remote.deleteCalls)
	assert.Equal(t, 2, remote.listCalls)
	assert.Nil(t, c.Snapshot().PendingDeletion)
	assert.Equal(t, []summary{{ID: "1"}}, c.Items())
	assert.Equal(t, []note{{Level: notify.LevelSuccess, Text: "Thing deleted successfully!"}}, rec.all())
}

func TestDelete_ServerMessageUsedOnSuccess(t *testing.T) {
	remote := newFakeRemote()
	remote.del = gateway.Envelope[json.RawMessage]{Success: true, Message: "Gone."}
	c, rec := newTestController(t, remote)

	c.RequestDelete(summary{ID: "x"})
	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Equal(t, "Gone.", rec.all()[0].Text)
}

func TestDelete_ClosesDetailOfDeletedRecord(t *testing.T) {
	remote := newFakeRemote()
	remote.records["1"] = succeed(record{ID: "1"})
	c, _ := newTestController(t, remote)

	_, err := c.Open(context.Background(), "1")
	require.NoError(t, err)
	c.RequestDelete(summary{ID: "1"})
	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Equal(t, DetailClosed, c.Snapshot().Detail.State)
}

func TestDelete_CancelSendsNothing(t *testing.T) {
	remote := newFakeRemote()
	c, _ := newTestController(t, remote)

	c.RequestDelete(summary{ID: "1"})
	c.CancelDelete()
	assert.Nil(t, c.Snapshot().PendingDeletion)
	assert.ErrorIs(t, c.ConfirmDelete(context.Background()), ErrNoPendingDeletion)
	assert.Empty(t, remote.deleteCalls)
	assert.Zero(t, remote.listCalls)
}

func TestDelete_LogicalFailureKeepsCandidate(t *testing.T) {
	remote := newFakeRemote()
	remote.list = []gateway.Envelope[[]summary]{succeed([]summary{{ID: "1"}, {ID: "2"}})}
	remote.del = gateway.Envelope[json.RawMessage]{Success: false, Message: "in use"}
	c, rec := newTestController(t, remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	c.RequestDelete(summary{ID: "1"})
	err = c.ConfirmDelete(context.Background())
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureLogical, failure.Kind)

	pending := c.Snapshot().PendingDeletion
	require.NotNil(t, pending)
	assert.Equal(t, "1", pending.ID)
	assert.Equal(t, 1, remote.listCalls)
	assert.Len(t, c.Items(), 2)
	assert.Equal(t, []note{{Level: notify.LevelWarning, Text: "in use"}}, rec.all())
}

func TestDelete_TransportFailureChangesNothing(t *testing.T) {
	remote := newFakeRemote()
	remote.delErr = &gateway.TransportError{Method: "DELETE", Path: "/things/1", Err: errors.New("reset")}
	c, rec := newTestController(t, remote)

	c.RequestDelete(summary{ID: "1"})
	err := c.ConfirmDelete(context.Background())
	require.Error(t, err)
	assert.NotNil(t, c.Snapshot().PendingDeletion)
	assert.Zero(t, remote.listCalls)
	assert.Equal(t, notify.LevelError, rec.all()[0].Level)
}

func TestDelete_NewRequestReplacesCandidate(t *testing.T) {
	c, _ := newTestController(t, newFakeRemote())

	c.RequestDelete(summary{ID: "1"})
	c.RequestDelete(summary{ID: "2"})
	assert.Equal(t, "2", c.Snapshot().PendingDeletion.ID)
	assert.ErrorIs(t, c.RequestDeleteID("nope"), ErrUnknownEntity)
	assert.Equal(t, "2", c.Snapshot().PendingDeletion.ID)
}

func TestGalleryView_Caption(t *testing.T) {
	tests := []struct {
		name string
		view GalleryView
		want string
	}{
		{name: "default label", view: GalleryView{Gallery: Gallery{Images: []string{"a", "b"}}, Cursor: 1}, want: "Image 2 of 2"},
		{name: "custom label", view: GalleryView{Gallery: Gallery{Label: "Student Image", Images: []string{"a", "b", "c"}}}, want: "Student Image 1 of 3"},
		{name: "empty", view: GalleryView{Gallery: Gallery{Empty: "No images available"}}, want: "No images available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.Caption())
		})
	}
}
