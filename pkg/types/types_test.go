package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutesSinceMidnight(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "morning", input: "09:15", want: 555},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "single digit hour", input: "9:00", wantErr: true},
		{name: "seconds", input: "09:00:00", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinutesSinceMidnight(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToHHMM_Wraps(t *testing.T) {
	assert.Equal(t, "00:00", ToHHMM(0))
	assert.Equal(t, "16:00", ToHHMM(960))
	assert.Equal(t, "00:30", ToHHMM(1470))
	assert.Equal(t, "23:45", ToHHMM(-15))
	assert.Equal(t, "01:05", ToHHMM(3*MinutesInDay+65))
}

func TestDayOfWeekName_SevenConsecutiveDates(t *testing.T) {
	expected := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	anchor, err := ParseDate("2024-01-01")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 7; i++ {
		name, err := DayOfWeekName(anchor.AddDays(i).String())
		require.NoError(t, err)
		assert.Equal(t, expected[i], name)
		seen[name] = true
	}
	assert.Len(t, seen, 7)
}

func TestDayOfWeekName_InvalidDate(t *testing.T) {
	_, err := DayOfWeekName("2024-02-30")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = DayOfWeekName("01/01/2024")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestAddMinutesUTC_RoundTrip(t *testing.T) {
	date, err := ParseDate("2024-03-10")
	require.NoError(t, err)

	for start := 0; start < MinutesInDay; start += 37 {
		for _, duration := range []int{15, 60, 90, 240, 1439} {
			from := TimeString(ToHHMM(start))
			end, err := AddMinutesUTC(date, from, duration)
			require.NoError(t, err)

			back, err := AddMinutesUTC(date, end, -duration)
			require.NoError(t, err)
			assert.Equal(t, from, back, "start=%s duration=%d", from, duration)
		}
	}
}

func TestAddMinutesUTC_WrapsWithoutDate(t *testing.T) {
	date, err := ParseDate("2024-03-10")
	require.NoError(t, err)

	end, err := AddMinutesUTC(date, "23:30", 60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:30"), end)

	endDate, endTime, err := AddMinutesUTCWithCarry(date, "23:30", 60)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", endDate.String())
	assert.Equal(t, TimeString("00:30"), endTime)

	endDate, endTime, err = AddMinutesUTCWithCarry(date, "10:00", 90)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", endDate.String())
	assert.Equal(t, TimeString("11:30"), endTime)
}

func TestLocalToUTC_ResolvesOffsetForExactDate(t *testing.T) {
	winter, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	summer, err := ParseDate("2024-07-15")
	require.NoError(t, err)

	d, tm, err := LocalToUTC(winter, "09:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.String())
	assert.Equal(t, TimeString("14:00"), tm)

	d, tm, err = LocalToUTC(summer, "09:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-15", d.String())
	assert.Equal(t, TimeString("13:00"), tm)
}

func TestLocalToUTC_CrossesDateBoundary(t *testing.T) {
	date, err := ParseDate("2024-05-01")
	require.NoError(t, err)

	d, tm, err := LocalToUTC(date, "08:00", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30", d.String())
	assert.Equal(t, TimeString("23:00"), tm)

	localDate, localTime, err := UTCToLocal(d, tm, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", localDate.String())
	assert.Equal(t, TimeString("08:00"), localTime)
}

func TestLocalToUTC_FailsClosed(t *testing.T) {
	date, err := ParseDate("2024-03-10")
	require.NoError(t, err)

	_, _, err = LocalToUTC(date, "09:00", "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrTimeConversion)

	_, _, err = LocalToUTC(date, "09:00", "")
	assert.ErrorIs(t, err, ErrTimeConversion)

	_, _, err = LocalToUTC(date, "09:00", "Local")
	assert.ErrorIs(t, err, ErrTimeConversion)

	_, _, err = UTCToLocal(date, "09:00", "Local")
	assert.ErrorIs(t, err, ErrTimeConversion)

	// 02:30 не существует в Нью-Йорке в день перехода на летнее время
	_, _, err = LocalToUTC(date, "02:30", "America/New_York")
	assert.ErrorIs(t, err, ErrTimeConversion)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("17:05")))
	assert.Equal(t, TimeString("17:05"), ts)

	assert.Error(t, ts.Scan("9:5"))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-06-01"))
	assert.Equal(t, "2024-06-01", d.String())

	require.NoError(t, d.Scan(NewDate(2025, 1, 2).Time()))
	assert.Equal(t, "2025-01-02", d.String())
}
