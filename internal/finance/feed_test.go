package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedFeedSignsAndOrder(t *testing.T) {
	revenue := []Entry{
		{Date: day(2024, time.January, 5), Amount: 100, Category: "laboratory"},
		{Date: day(2024, time.January, 10), Amount: 50, Category: "pharmacy"},
	}
	expenses := []Entry{
		{Date: day(2024, time.January, 8), Amount: 30, Category: "rent"},
	}

	feed := CombinedFeed(revenue, expenses)
	require.Len(t, feed, 3)

	// most recent first
	assert.Equal(t, "2024-01-10", feed[0].Date)
	assert.Equal(t, "2024-01-08", feed[1].Date)
	assert.Equal(t, "2024-01-05", feed[2].Date)

	assert.Equal(t, 50.0, feed[0].Amount)
	assert.Equal(t, -30.0, feed[1].Amount)
	assert.Equal(t, "expense", feed[1].Kind)
	assert.Equal(t, "revenue", feed[2].Kind)
}

func TestCombinedFeedStableForEqualTimestamps(t *testing.T) {
	same := day(2024, time.May, 1)
	revenue := []Entry{
		{Date: same, Amount: 1, Category: "first"},
		{Date: same, Amount: 2, Category: "second"},
	}
	expenses := []Entry{
		{Date: same, Amount: 3, Category: "third"},
	}

	// equal-timestamp rows keep input order: revenue first, then expenses
	want := []string{"first", "second", "third"}
	for i := 0; i < 10; i++ {
		feed := CombinedFeed(revenue, expenses)
		require.Len(t, feed, 3)
		for j, cat := range want {
			assert.Equal(t, cat, feed[j].Category)
		}
	}
}

func TestCombinedFeedSkipsZeroDates(t *testing.T) {
	revenue := []Entry{{Amount: 100}}
	feed := CombinedFeed(revenue, nil)
	assert.Empty(t, feed)
}
