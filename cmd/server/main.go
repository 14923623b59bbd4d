package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"schema-normalizer/internal/config"
	"schema-normalizer/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	srv := server.New(cfg, logger)
	port := strconv.Itoa(cfg.Port)

	fmt.Printf("🚀 Schema Normalizer Web Server\n")
	fmt.Printf("📡 服务地址: http://localhost:%s\n", port)
	fmt.Printf("📊 POST /api/normalize 提交任务，GET /api/task/{id} 查询结果\n\n")

	logger.Info("server starting",
		zap.String("port", port),
		zap.Int("max_attributes", cfg.MaxAttributes),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.Float64("rate_limit_rps", cfg.RateLimitRPS))

	log.Fatal(http.ListenAndServe(":"+port, srv.Handler()))
}
