package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SenderMode selects where an advanced invoice takes its sender identity from
type SenderMode int

const (
	SenderModePersonal SenderMode = 0
	SenderModeCompany  SenderMode = 1
)

func (m SenderMode) String() string {
	if m == SenderModeCompany {
		return "company"
	}
	return "personal"
}

func (m SenderMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *SenderMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = SenderMode(i)
		return nil
	}
	if str == "company" {
		*m = SenderModeCompany
	} else {
		*m = SenderModePersonal
	}
	return nil
}

func (m SenderMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *SenderMode) Scan(value interface{}) error {
	if value == nil {
		*m = SenderModePersonal
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = SenderMode(v)
	case int:
		*m = SenderMode(v)
	}
	return nil
}
