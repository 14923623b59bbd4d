package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"schema-normalizer/internal/adapter"
	"schema-normalizer/internal/analyzer"
	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/input"
	"schema-normalizer/internal/keys"
)

// SchemaRequest 属性和依赖，Document 为可选的 YAML/JSON 文档
type SchemaRequest struct {
	Attributes   []string `json:"attributes"`
	Dependencies []string `json:"dependencies"`
	Document     string   `json:"document"`
}

// ClosureRequest 闭包请求
type ClosureRequest struct {
	SchemaRequest
	Of     []string `json:"of"`
	Within []string `json:"within"`
}

// ConnectionRequest 连接测试请求
type ConnectionRequest struct {
	DBType string `json:"db_type"` // mysql/sqlserver/postgres
	Conn   string `json:"conn"`
	Schema string `json:"schema"`
}

// build 解析请求并检查属性上限
func (s *Server) build(req SchemaRequest) (*input.Schema, error) {
	doc := input.FromFlags(strings.Join(req.Attributes, ","), req.Dependencies)
	if req.Document != "" {
		extra, err := input.Parse([]byte(req.Document))
		if err != nil {
			return nil, err
		}
		doc.Merge(extra)
	}
	schema, err := doc.Build()
	if err != nil {
		return nil, err
	}
	if n := schema.Universe.Len(); n > s.cfg.MaxAttributes {
		return nil, fmt.Errorf("%d attributes exceed the limit of %d", n, s.cfg.MaxAttributes)
	}
	return schema, nil
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleNormalize 创建规范化任务
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req SchemaRequest
	if !decode(w, r, &req) {
		return
	}
	schema, err := s.build(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, ok := s.startTask()
	if !ok {
		writeError(w, http.StatusConflict, "another normalization is running")
		return
	}
	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.Int("attributes", schema.Universe.Len()),
		zap.Int("dependencies", len(schema.Dependencies)))

	go s.runTask(task, schema.Universe, schema.Dependencies)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"task_id":  task.ID,
		"status":   StatusPending,
		"warnings": schema.Warnings,
	})
}

// handleTaskStatus 查询任务状态
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, ok := s.snapshot(path.Base(r.URL.Path))
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleWebSocket 持续推送任务状态直到结束
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		task, exists := s.snapshot(taskID)
		if !exists {
			return
		}
		if err := conn.WriteJSON(task); err != nil {
			return
		}
		if task.done() {
			return
		}
		<-ticker.C
	}
}

// handleKeys 候选键、超键和主属性
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	var req SchemaRequest
	if !decode(w, r, &req) {
		return
	}
	schema, err := s.build(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	search := keys.Run(schema.Universe, schema.Dependencies)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"relation":  search.Relation,
		"keys":      search.Keys,
		"superkeys": search.Superkeys,
		"prime":     keys.PrimeAttributes(search.Keys),
		"examined":  search.Examined,
	})
}

// handleClosure 属性闭包及推导步骤
func (s *Server) handleClosure(w http.ResponseWriter, r *http.Request) {
	var req ClosureRequest
	if !decode(w, r, &req) {
		return
	}
	schema, err := s.build(req.SchemaRequest)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start := attrset.New(req.Of...)
	if start.IsEmpty() {
		writeError(w, http.StatusBadRequest, "closure start set cannot be empty")
		return
	}

	var scope *attrset.Set
	if len(req.Within) > 0 {
		within := attrset.New(req.Within...)
		scope = &within
	}
	closure, steps := fd.Derive(start, schema.Dependencies, scope)
	relation := schema.Universe
	if scope != nil {
		relation = *scope
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"closure":     closure,
		"steps":       steps,
		"is_superkey": fd.IsSuperkey(start, relation, schema.Dependencies),
	})
}

// handleAnalyze 依赖分类和最高范式
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req SchemaRequest
	if !decode(w, r, &req) {
		return
	}
	schema, err := s.build(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analyzer.Classify(schema.Universe, schema.Dependencies))
}

// handleTestConnection 测试数据库连接
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := adapter.Open(req.DBType, req.Conn, req.Schema, s.logger)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	a.Close()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "connected",
	})
}
