package boot

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/witnessos.yaml
var defaultQueueYAML []byte

// QueueFile is the on-disk form of a boot queue.
type QueueFile struct {
	Name     string         `yaml:"name"`
	Messages []MessageEntry `yaml:"messages"`
}

// MessageEntry is the on-disk form of a BootMessage.
type MessageEntry struct {
	Timestamp string `yaml:"timestamp"`
	Level     Level  `yaml:"level"`
	Source    string `yaml:"source"`
	Text      string `yaml:"text"`
	DelayMs   int64  `yaml:"delay_ms"`
}

// DefaultQueue returns the built-in WitnessOS boot queue.
func DefaultQueue() []BootMessage {
	q, err := ParseQueue(defaultQueueYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded boot queue is invalid: %v", err))
	}
	return q
}

// LoadQueue reads a queue from a YAML file.
func LoadQueue(path string) ([]BootMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	q, err := ParseQueue(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// ParseQueue decodes a YAML queue. Entries without a level default to info;
// negative delays are rejected.
func ParseQueue(data []byte) ([]BootMessage, error) {
	var qf QueueFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("failed to parse queue: %w", err)
	}

	queue := make([]BootMessage, 0, len(qf.Messages))
	for i, e := range qf.Messages {
		if e.DelayMs < 0 {
			return nil, fmt.Errorf("message %d: negative delay_ms %d", i, e.DelayMs)
		}
		level := e.Level
		if level == "" {
			level = LevelInfo
		}
		if !level.Valid() {
			return nil, fmt.Errorf("message %d: unknown level %q", i, e.Level)
		}
		queue = append(queue, BootMessage{
			Timestamp: e.Timestamp,
			Level:     level,
			Source:    e.Source,
			Text:      e.Text,
			Delay:     time.Duration(e.DelayMs) * time.Millisecond,
		})
	}
	return queue, nil
}

// ValidateQueue checks a queue the way Start does and additionally reports
// soft problems, such as delays that go backwards, as warnings.
func ValidateQueue(queue []BootMessage) (warnings []string, err error) {
	if err := checkQueue(queue); err != nil {
		return nil, err
	}
	for i := 1; i < len(queue); i++ {
		if queue[i].Delay < queue[i-1].Delay {
			warnings = append(warnings, fmt.Sprintf(
				"message %d (%s): delay %s is earlier than message %d's %s",
				i, queue[i].Source, queue[i].Delay, i-1, queue[i-1].Delay))
		}
	}
	return warnings, nil
}
