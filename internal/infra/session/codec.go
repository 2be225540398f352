package session

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/wizard"
)

func encode(s *wizard.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal session %s: %v", ErrCodec, s.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*wizard.Session, error) {
	var s wizard.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session: %v", ErrCodec, err)
	}
	return &s, nil
}
