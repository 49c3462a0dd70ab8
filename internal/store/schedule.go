package store

import "fmt"

// SetSchedule upserts the working hours for a lowercase weekday name.
func (s *Store) SetSchedule(day, start, end string) error {
	_, err := s.db.Exec(
		`INSERT INTO schedule (day_of_week, start_time, end_time) VALUES (?, ?, ?)
		 ON CONFLICT(day_of_week) DO UPDATE SET start_time = excluded.start_time, end_time = excluded.end_time`,
		day, start, end,
	)
	if err != nil {
		return fmt.Errorf("set schedule for %s: %w", day, err)
	}
	return nil
}

// ClearSchedule removes a day's working hours, making it non-working.
func (s *Store) ClearSchedule(day string) error {
	_, err := s.db.Exec(`DELETE FROM schedule WHERE day_of_week = ?`, day)
	return err
}

// ListSchedule returns entries for the days that have working hours, in
// weekday order.
func (s *Store) ListSchedule() ([]ScheduleEntry, error) {
	rows, err := s.db.Query(`SELECT day_of_week, start_time, end_time FROM schedule`)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]ScheduleEntry)
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.Day, &e.Start, &e.End); err != nil {
			return nil, err
		}
		byDay[e.Day] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var entries []ScheduleEntry
	for _, day := range Weekdays {
		if e, ok := byDay[day]; ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
