package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/graph"
	"schema-normalizer/internal/normalizer"
	"schema-normalizer/internal/renderer"
)

// 任务状态
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Task 规范化任务
type Task struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Progress  int         `json:"progress"` // 0-100
	Message   string      `json:"message"`
	Result    *TaskResult `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TaskResult 任务输出
type TaskResult struct {
	*normalizer.Result
	Markdown  string `json:"markdown"`
	HTML      string `json:"html"`
	Mermaid   string `json:"mermaid"`
	GraphJSON string `json:"graph_json"`
}

func (t *Task) done() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// startTask 创建并登记任务。已有任务在执行时返回 false。
func (s *Server) startTask() (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != "" {
		return nil, false
	}
	now := time.Now()
	task := &Task{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Message:   "task created",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks[task.ID] = task
	s.running = task.ID
	return task, true
}

// snapshot 任务的一致副本
func (s *Server) snapshot(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

func (s *Server) updateTask(task *Task, status string, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.done() {
		return
	}
	task.Status = status
	task.Progress = progress
	task.Message = message
	task.UpdatedAt = time.Now()
}

func (s *Server) finishTask(task *Task, result *TaskResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.done() {
		return
	}
	task.Result = result
	task.Status = StatusCompleted
	task.Progress = 100
	task.Message = "normalization complete"
	task.UpdatedAt = time.Now()
}

type outcome struct {
	res *normalizer.Result
	err error
}

// runTask 在超时限制内执行规范化。
// 超时后任务标记为失败，但计算结束前不接受新任务。
func (s *Server) runTask(task *Task, universe attrset.Set, fds []fd.Dependency) {
	s.updateTask(task, StatusRunning, 10, fmt.Sprintf("normalizing %d attributes with %d dependencies", universe.Len(), len(fds)))

	done := make(chan outcome, 1)
	go func() {
		res, err := s.normalize(universe, fds)
		done <- outcome{res: res, err: err}

		s.mu.Lock()
		if s.running == task.ID {
			s.running = ""
		}
		s.mu.Unlock()
	}()

	timer := time.NewTimer(s.cfg.RequestTimeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			s.logger.Info("normalization rejected", zap.String("task_id", task.ID), zap.Error(out.err))
			s.updateTask(task, StatusFailed, 100, out.err.Error())
			return
		}
		s.updateTask(task, StatusRunning, 80, "rendering output")
		s.finishTask(task, render(out.res))
		s.logger.Info("normalization completed",
			zap.String("task_id", task.ID),
			zap.Int("relations", len(out.res.Relations)))
	case <-timer.C:
		s.logger.Warn("normalization timed out",
			zap.String("task_id", task.ID),
			zap.Duration("timeout", s.cfg.RequestTimeout))
		s.updateTask(task, StatusFailed, 100, fmt.Sprintf("timed out after %s", s.cfg.RequestTimeout))
	}
}

func render(res *normalizer.Result) *TaskResult {
	g := graph.FromResult(res)
	graphJSON, _ := g.ToJSON()
	return &TaskResult{
		Result:    res,
		Markdown:  renderer.NewMarkdownRenderer().Render(res, g),
		HTML:      renderer.NewHTMLRenderer().Render(res),
		Mermaid:   renderer.NewMermaidRenderer().Render(g),
		GraphJSON: string(graphJSON),
	}
}
