package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
  "schedule": {
    "days": {
      "Saturday": {
        "tables": 2,
        "start_time": "12:00pm",
        "end_time": "6:00pm",
        "slot_duration": "2hr"
      },
      "sunday": {
        "tables": 1,
        "start_time": "1:00pm",
        "end_time": "5:00pm",
        "slot_duration": "1hr"
      }
    },
    "nightly": {
      "run_time": "3:00am",
      "open_ahead": 6,
      "close_behind": 1,
      "clean_behind": 7,
      "verbose": true
    },
    "weekly": {
      "run_day": "Friday",
      "run_time": "10:00am",
      "verbose": false
    },
    "activities": ["chess", "Magic"]
  }
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(validDocument))
	require.NoError(t, err)

	saturday, err := doc.Week.Day("saturday")
	require.NoError(t, err)
	assert.Equal(t, 2, saturday.Tables)
	assert.Equal(t, "12:00pm", saturday.Start.String())
	assert.Equal(t, "6:00pm", saturday.End.String())
	assert.Equal(t, "2hr00m", saturday.SlotSize.String())

	// Day keys normalize to lowercase regardless of document casing.
	_, err = doc.Week.Day("Sunday")
	require.NoError(t, err)

	require.True(t, doc.Nightly.Enabled)
	assert.Equal(t, "3:00am", doc.Nightly.RunTime.String())
	assert.Equal(t, 6, doc.Nightly.OpenAhead)
	assert.Equal(t, 1, doc.Nightly.CloseBehind)
	assert.Equal(t, 7, doc.Nightly.CleanBehind)

	require.True(t, doc.Weekly.Enabled)
	assert.Equal(t, "friday", doc.Weekly.RunDay)
	assert.Equal(t, "10:00am", doc.Weekly.RunTime.String())

	assert.True(t, doc.HasActivity("chess"))
	assert.True(t, doc.HasActivity("magic"))
	assert.False(t, doc.HasActivity("poker"))
}

func TestParseDocumentOptionalSectionsAbsent(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
	  "schedule": {
	    "days": {
	      "monday": {
	        "tables": 1,
	        "start_time": "9:00am",
	        "end_time": "5:00pm",
	        "slot_duration": "1hr"
	      }
	    }
	  }
	}`))
	require.NoError(t, err)
	assert.False(t, doc.Nightly.Enabled)
	assert.False(t, doc.Weekly.Enabled)
	assert.Empty(t, doc.Activities)
}

func TestParseDocumentRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "schedule:"},
		{name: "no days", doc: `{"schedule": {"days": {}}}`},
		{
			name: "invalid weekday key",
			doc: `{"schedule": {"days": {"caturday": {
				"tables": 1, "start_time": "9:00am", "end_time": "5:00pm", "slot_duration": "1hr"}}}}`,
		},
		{
			name: "bad start time",
			doc: `{"schedule": {"days": {"monday": {
				"tables": 1, "start_time": "soon", "end_time": "5:00pm", "slot_duration": "1hr"}}}}`,
		},
		{
			name: "zero tables",
			doc: `{"schedule": {"days": {"monday": {
				"tables": 0, "start_time": "9:00am", "end_time": "5:00pm", "slot_duration": "1hr"}}}}`,
		},
		{
			name: "inverted window",
			doc: `{"schedule": {"days": {"monday": {
				"tables": 1, "start_time": "5:00pm", "end_time": "9:00am", "slot_duration": "1hr"}}}}`,
		},
		{
			name: "bad weekly day",
			doc: `{"schedule": {"days": {"monday": {
				"tables": 1, "start_time": "9:00am", "end_time": "5:00pm", "slot_duration": "1hr"}},
				"weekly": {"run_day": "someday", "run_time": "10:00am"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
