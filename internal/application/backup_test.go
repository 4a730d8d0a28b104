package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_Run(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.store.CreateUser("Alice")
	f.store.CreateProject(alice.ID, "Garage", "")

	var gotPath, gotType string
	var body bytes.Buffer
	b := &Backup{
		Store:  f.store,
		Prefix: "backups",
		Now:    f.clock.Now,
		Upload: func(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
			gotPath, gotType = objectPath, contentType
			_, err := io.Copy(&body, r)
			return "gs://bucket/" + objectPath, err
		},
	}

	loc, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/snapshot-20260301T120000Z.json", gotPath)
	assert.Equal(t, "gs://bucket/backups/snapshot-20260301T120000Z.json", loc)
	assert.Equal(t, "application/json", gotType)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(body.Bytes(), &snap))
	assert.Equal(t, f.store.Users(), snap.Users)
	assert.Equal(t, f.store.Projects(), snap.Projects)
}

func TestBackup_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := (&Backup{Store: f.store}).Run(context.Background())
	assert.Error(t, err)

	b := &Backup{Store: f.store, Upload: func(context.Context, string, string, io.Reader) (string, error) {
		return "", errors.New("denied")
	}}
	_, err = b.Run(context.Background())
	assert.EqualError(t, err, "denied")
}

func TestBackup_Schedule(t *testing.T) {
	f := newFixture(t)
	b := &Backup{Store: f.store}

	_, err := b.Schedule("not a cron")
	assert.Error(t, err)

	c, err := b.Schedule("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

func TestBackup_SnapshotIsConsistentUnderWrites(t *testing.T) {
	f := newFixture(t)
	b := &Backup{Store: f.store, Now: f.clock.Now}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			u, _ := f.store.CreateUser(fmt.Sprintf("author %d", i))
			f.store.CreateProject(u.ID, fmt.Sprintf("project %d", i), "")
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		snap := b.Snapshot()
		authors := make(map[string]bool, len(snap.Users))
		for _, u := range snap.Users {
			authors[u.ID] = true
		}
		for _, p := range snap.Projects {
			require.True(t, authors[p.AuthorID], "project %s without its author", p.ID)
		}
	}

	snap := b.Snapshot()
	assert.Len(t, snap.Users, 300)
	assert.Len(t, snap.Projects, 300)
}
