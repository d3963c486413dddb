package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateSlots генерирует начала слотов в минутах от полуночи запрошенной даты (UTC).
// Слот допустим, если целиком помещается в окно: start + duration <= windowEnd.
// Окно, у которого конец раньше начала, переходит через полночь, поэтому значения
// могут быть больше 1440.
func generateSlots(window *domain.AvailabilityWindow, duration, step int) ([]int, error) {
	if !window.IsOpen() {
		return []int{}, nil
	}

	start, err := window.StartTime.Minutes()
	if err != nil {
		return nil, err
	}
	end, err := window.EndTime.Minutes()
	if err != nil {
		return nil, err
	}
	if end < start {
		end += types.MinutesInDay
	}

	offsets := make([]int, 0)
	for candidate := start; candidate+duration <= end; candidate += step {
		offsets = append(offsets, candidate)
	}

	return offsets, nil
}

// buildSlots отбрасывает прошедшие и занятые слоты, переводит смещения в HH:MM (UTC)
// с удалением дублей и сортировкой, и добавляет локальное время специалиста
func buildSlots(
	date types.Date,
	offsets []int,
	duration int,
	busy []*domain.Appointment,
	now time.Time,
	timezone string,
) ([]domain.AvailableSlot, []error) {
	seen := make(map[types.TimeString]struct{}, len(offsets))
	slots := make([]domain.AvailableSlot, 0, len(offsets))
	var conversionErrs []error

	for _, offset := range offsets {
		startAt := date.Time().Add(time.Duration(offset) * time.Minute)
		endAt := startAt.Add(time.Duration(duration) * time.Minute)

		if startAt.Before(now) || overlapsAny(busy, startAt, endAt) {
			continue
		}

		startTime := types.TimeString(types.ToHHMM(offset))
		if _, dup := seen[startTime]; dup {
			continue
		}
		seen[startTime] = struct{}{}

		slot := domain.AvailableSlot{StartTime: startTime}
		if timezone != "" {
			localDate, localTime, err := types.UTCToLocal(date.AddDays(offset/types.MinutesInDay), startTime, timezone)
			if err != nil {
				conversionErrs = append(conversionErrs, err)
			} else {
				slot.LocalDate = localDate
				slot.LocalStartTime = localTime
			}
		}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})

	return slots, conversionErrs
}

// overlapsAny проверяет пересечение полуинтервала [start, end) с активными записями.
// Записи, которые заканчиваются ровно в начале слота, пересечением не считаются.
func overlapsAny(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if appt.Status.IsActive() && appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
