package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/storefront/pkg/common"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  Status
	}{
		{100, StatusGood},
		{80, StatusGood},
		{79, StatusWarning},
		{60, StatusWarning},
		{59, StatusWatch},
		{40, StatusWatch},
		{39, StatusBlacklisted},
		{0, StatusBlacklisted},
		// out-of-range inputs still classify
		{150, StatusGood},
		{-10, StatusBlacklisted},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	rank := map[Status]int{
		StatusBlacklisted: 0,
		StatusWatch:       1,
		StatusWarning:     2,
		StatusGood:        3,
	}

	prev := Classify(0)
	for score := 1; score <= 100; score++ {
		cur := Classify(score)
		assert.GreaterOrEqual(t, rank[cur], rank[prev], "status regressed at score %d", score)
		prev = cur
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-15))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 55, ClampScore(55))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(105))
}

func TestParseTier(t *testing.T) {
	for _, tier := range []string{"warning", "watch", "blacklisted"} {
		got, err := ParseTier(tier)
		require.NoError(t, err)
		assert.Equal(t, Status(tier), got)
	}
}

func TestParseTierRejectsUnknown(t *testing.T) {
	for _, tier := range []string{"", "WARNING", "suspicious", "bad", "good"} {
		_, err := ParseTier(tier)
		require.Error(t, err, "tier %q", tier)

		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	}
}

func TestTiersAtOrBelow(t *testing.T) {
	assert.Equal(t, []Status{StatusWarning, StatusWatch, StatusBlacklisted}, TiersAtOrBelow(StatusWarning))
	assert.Equal(t, []Status{StatusWatch, StatusBlacklisted}, TiersAtOrBelow(StatusWatch))
	assert.Equal(t, []Status{StatusBlacklisted}, TiersAtOrBelow(StatusBlacklisted))
	assert.Nil(t, TiersAtOrBelow(StatusGood))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+79001234567", "+79001234567"},
		{"+7 900 123-45-67", "+79001234567"},
		{"(900) 123.4567", "9001234567"},
		{"0551234567", "0551234567"},
		{"055 123 4567", "0551234567"},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		require.NoError(t, err, "phone %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	for _, phone := range []string{"", "abc", "12345", "phone+123", "+7900123456789012345"} {
		_, err := NormalizePhone(phone)
		require.Error(t, err, "phone %q", phone)

		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	}
}
