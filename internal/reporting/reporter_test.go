// File: internal/reporting/reporter_test.go
package reporting

import (
	"bytes"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

// closableBuffer records whether Close was called.
type closableBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closableBuffer) Close() error {
	b.closed = true
	return nil
}

func successResult() schemas.ResolutionResult {
	return schemas.ResolutionResult{
		Success: true,
		Candidate: &schemas.Candidate{
			Expression: `//button[@id='go']`,
			Strategy:   schemas.StrategyID,
			Confidence: 0.94,
			MatchCount: 1,
			Verdict:    schemas.VerdictUnique,
		},
		Alternates: []schemas.Candidate{{
			Expression: `//button[text()='Go']`,
			Strategy:   schemas.StrategyText,
			Confidence: 0.42,
		}},
	}
}

func failureResult() schemas.ResolutionResult {
	return schemas.ResolutionResult{
		Success: false,
		Reason:  schemas.ReasonNoUniqueLocator,
		Attempted: []schemas.AttemptedStrategy{{
			Strategy:   schemas.StrategyClass,
			Expression: `//div[@class='item']`,
			MatchCount: 3,
			Verdict:    schemas.VerdictAmbiguous,
		}},
	}
}

func TestJSONReporterEmitsArrayOnClose(t *testing.T) {
	buf := &closableBuffer{}
	r := NewJSONReporter(buf)

	require.NoError(t, r.Write("go button", successResult()))
	assert.Zero(t, buf.Len(), "nothing is emitted before Close")
	require.NoError(t, r.Write("item", failureResult()))
	require.NoError(t, r.Close())
	assert.True(t, buf.closed)

	var entries []struct {
		Description string                   `json:"description"`
		Result      schemas.ResolutionResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "go button", entries[0].Description)
	assert.True(t, entries[0].Result.Success)
	assert.Equal(t, `//button[@id='go']`, entries[0].Result.Candidate.Expression)
	assert.Equal(t, schemas.ReasonNoUniqueLocator, entries[1].Result.Reason)
}

func TestJSONReporterEmptyReport(t *testing.T) {
	buf := &closableBuffer{}
	r := NewJSONReporter(buf)
	require.NoError(t, r.Close())

	var entries []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Empty(t, entries)
}

func TestTextReporterStreams(t *testing.T) {
	buf := &closableBuffer{}
	r := NewTextReporter(buf)

	require.NoError(t, r.Write("go button", successResult()))
	out := buf.String()
	assert.Contains(t, out, `//button[@id='go']`)
	assert.Contains(t, out, "strategy=ID confidence=0.9400")
	assert.Contains(t, out, "alternate")

	require.NoError(t, r.Write("item", failureResult()))
	out = buf.String()
	assert.Contains(t, out, "FAILED (NO_UNIQUE_LOCATOR)")
	assert.Contains(t, out, "matches=3")

	require.NoError(t, r.Close())
	assert.True(t, buf.closed)
}

func TestNewReporterFormats(t *testing.T) {
	dir := t.TempDir()

	r, err := New("json", filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)
	require.NoError(t, r.Close())

	r, err = New("text", filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.IsType(t, &TextReporter{}, r)
	require.NoError(t, r.Close())

	_, err = New("xml", filepath.Join(dir, "out.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestNewReporterStdout(t *testing.T) {
	r, err := New("text", "")
	require.NoError(t, err)
	// Closing must not close the real stdout.
	assert.NoError(t, r.Close())
}