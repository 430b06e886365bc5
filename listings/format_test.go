package listings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatUSD(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$40.00", FormatUSD(40))
	require.Equal(t, "$32.00", FormatUSD(32))
	require.Equal(t, "$0.00", FormatUSD(0))
	require.Equal(t, "$1,234.50", FormatUSD(1234.5))
	require.Equal(t, "$1,234,567.89", FormatUSD(1234567.891))
	require.Equal(t, "$1,000.00", FormatUSD(999.999))
	require.Equal(t, "$123.00", FormatUSD(123))
	require.Equal(t, "-$3.00", FormatUSD(-3))
	require.Equal(t, "$NaN", FormatUSD(math.NaN()))
	require.Equal(t, "$∞", FormatUSD(math.Inf(1)))
}
