package impl

import (
	"encoding/json"
	"strconv"
)

// The parsers below reduce raw Fitbit responses to single cells. They are
// fail-closed: any shape surprise yields "not present" instead of an error,
// so one malformed artifact cannot sink a whole export.

type stepsSummary struct {
	ActivitiesSteps []struct {
		Value string `json:"value"`
	} `json:"activities-steps"`
}

// parseSteps extracts the daily step total. Fitbit serializes the total as
// a string inside a one-element series.
func parseSteps(raw []byte) (int, bool) {
	var payload stepsSummary
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.ActivitiesSteps) == 0 {
		return 0, false
	}

	total, err := strconv.Atoi(payload.ActivitiesSteps[0].Value)
	if err != nil {
		return 0, false
	}

	return total, true
}

type heartSummary struct {
	ActivitiesHeart []struct {
		Value struct {
			RestingHeartRate *int `json:"restingHeartRate"`
		} `json:"value"`
	} `json:"activities-heart"`
}

// parseRestingHeartRate extracts the resting heart rate. Fitbit omits the
// field on days without enough wear time.
func parseRestingHeartRate(raw []byte) (int, bool) {
	var payload heartSummary
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.ActivitiesHeart) == 0 {
		return 0, false
	}

	resting := payload.ActivitiesHeart[0].Value.RestingHeartRate
	if resting == nil {
		return 0, false
	}

	return *resting, true
}

type sleepLog struct {
	Sleep []struct {
		MinutesAsleep int `json:"minutesAsleep"`
		Efficiency    int `json:"efficiency"`
	} `json:"sleep"`
}

// parseSleep sums minutes asleep across all sessions of the day and reports
// the efficiency of the longest session (naps dilute a weighted average).
func parseSleep(raw []byte) (minutes, efficiency int, ok bool) {
	var payload sleepLog
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Sleep) == 0 {
		return 0, 0, false
	}

	longest := payload.Sleep[0]
	for _, session := range payload.Sleep {
		minutes += session.MinutesAsleep
		if session.MinutesAsleep > longest.MinutesAsleep {
			longest = session
		}
	}

	return minutes, longest.Efficiency, true
}

type weightEntry struct {
	Weight *float64 `json:"weight"`
	Value  *float64 `json:"value"`
	BMI    *float64 `json:"bmi"`
	Fat    *float64 `json:"fat"`
}

type weightLog struct {
	Weight []weightEntry `json:"weight"`
}

// parseWeight extracts the first weight log entry of the day, falling back
// through the generic value, BMI and body-fat fields when the entry carries
// no weight reading.
func parseWeight(raw []byte) (float64, bool) {
	var payload weightLog
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Weight) == 0 {
		return 0, false
	}

	entry := payload.Weight[0]
	for _, candidate := range []*float64{entry.Weight, entry.Value, entry.BMI, entry.Fat} {
		if candidate != nil {
			return *candidate, true
		}
	}

	return 0, false
}

type profilePayload struct {
	User struct {
		DisplayName string `json:"displayName"`
		Age         int    `json:"age"`
		Gender      string `json:"gender"`
		MemberSince string `json:"memberSince"`
	} `json:"user"`
}

// profileCells holds the date-invariant profile columns repeated on every row.
type profileCells struct {
	DisplayName string
	Age         string
	Gender      string
	MemberSince string
}

// parseProfile extracts the profile columns. A missing or malformed profile
// artifact leaves all cells empty.
func parseProfile(raw []byte) profileCells {
	var payload profilePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return profileCells{}
	}

	cells := profileCells{
		DisplayName: payload.User.DisplayName,
		Gender:      payload.User.Gender,
		MemberSince: payload.User.MemberSince,
	}
	if payload.User.Age > 0 {
		cells.Age = strconv.Itoa(payload.User.Age)
	}

	return cells
}
