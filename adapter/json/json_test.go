package json_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	adapterjson "github.com/rnbguy/dbcop/adapter/json"
	"github.com/rnbguy/dbcop/pkg/dbcop"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

func sampleSessions() []history.Session[string, uint64] {
	return []history.Session[string, uint64]{
		{history.Committed(
			history.WriteVersion[string, uint64]("x", 1),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("y", 1),
		)},
		{history.Uncommitted(
			history.ReadEmpty[string, uint64]("z"),
		)},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sessions := sampleSessions()

	var buf bytes.Buffer
	require.NoError(t, adapterjson.Encode(&buf, sessions))

	decoded, err := adapterjson.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, sessions, decoded)
}

func TestDecodeRejectsUnknownEventKind(t *testing.T) {
	r := strings.NewReader(`{"sessions":[[{"events":[{"kind":"bogus","variable":"x"}],"committed":true}]]}`)
	_, err := adapterjson.Decode(r)
	require.Error(t, err)
}

func TestDecodeRejectsWriteWithoutVersion(t *testing.T) {
	r := strings.NewReader(`{"sessions":[[{"events":[{"kind":"write","variable":"x"}],"committed":true}]]}`)
	_, err := adapterjson.Decode(r)
	require.Error(t, err)
}

func TestEncodeHistoryCarriesMetadata(t *testing.T) {
	sessions := sampleSessions()
	var buf bytes.Buffer
	require.NoError(t, adapterjson.EncodeHistory(&buf, adapterjson.History{ID: 7, Info: "generated"}, sessions))

	_, meta, err := adapterjson.DecodeHistory(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(7), meta.ID)
	require.Equal(t, "generated", meta.Info)
}

func TestResultForSuccess(t *testing.T) {
	sessions := sampleSessions()
	w, err := dbcop.Check(sessions, dbcop.CommittedRead)
	require.NoError(t, err)

	result := adapterjson.ResultFor("history.json", w, nil)
	require.True(t, result.OK)
	require.NotNil(t, result.Witness)

	var buf bytes.Buffer
	require.NoError(t, adapterjson.EncodeResult(&buf, result))
	require.Contains(t, buf.String(), `"ok":true`)
}

func TestResultForFailure(t *testing.T) {
	sessions := []history.Session[string, uint64]{
		{history.Committed(history.WriteVersion[string, uint64]("x", 1))},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("x", 2),
		)},
		{history.Committed(
			history.ReadVersion[string, uint64]("x", 1),
			history.WriteVersion[string, uint64]("x", 3),
		)},
	}
	_, err := dbcop.Check(sessions, dbcop.SnapshotIsolation)
	require.Error(t, err)

	result := adapterjson.ResultFor("skew.json", dbcop.Witness{}, err)
	require.False(t, result.OK)
	require.NotEmpty(t, result.Error)
}
