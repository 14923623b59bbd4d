package trace

import "fmt"

// Stage 规范化阶段
type Stage string

const (
	StageInput Stage = "input"
	Stage1NF   Stage = "1NF"
	Stage2NF   Stage = "2NF"
	Stage3NF   Stage = "3NF"
	StageBCNF  Stage = "BCNF"
	StageFinal Stage = "final"
)

// Level 条目级别，对应渲染时的样式
type Level string

const (
	LevelInfo    Level = "info"
	LevelTitle   Level = "title"
	LevelExplain Level = "explain"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Entry 一条推导说明
type Entry struct {
	Stage   Stage  `json:"stage"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Log 线性推导记录。nil *Log 可以安全调用，所有写入会被丢弃。
type Log struct {
	stage   Stage
	entries []Entry
}

// NewLog 创建记录
func NewLog() *Log {
	return &Log{stage: StageInput}
}

// Enter 切换当前阶段
func (l *Log) Enter(stage Stage) {
	if l == nil {
		return
	}
	l.stage = stage
}

// Stage 当前阶段
func (l *Log) Stage() Stage {
	if l == nil {
		return StageInput
	}
	return l.stage
}

func (l *Log) add(level Level, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, Entry{Stage: l.stage, Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *Log) Infof(format string, args ...interface{})    { l.add(LevelInfo, format, args...) }
func (l *Log) Titlef(format string, args ...interface{})   { l.add(LevelTitle, format, args...) }
func (l *Log) Explainf(format string, args ...interface{}) { l.add(LevelExplain, format, args...) }
func (l *Log) Successf(format string, args ...interface{}) { l.add(LevelSuccess, format, args...) }
func (l *Log) Warnf(format string, args ...interface{})    { l.add(LevelWarning, format, args...) }

// Entries 全部条目的副本
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines 纯文本形式
func (l *Log) Lines() []string {
	entries := l.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
