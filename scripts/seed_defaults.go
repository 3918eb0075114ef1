// 手动写入默认成就目录和鼓励短句脚本
//
// 主应用启动迁移时会自动执行一次（仅当对应表为空）。
// 此脚本用于手动触发，例如清空目录后重建或新环境初始化。
//
// 用法: go run scripts/seed_defaults.go

package main

import (
	"log"
	"os"
	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/pkg/database"
	"quit_smoking_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	// migrate=true 连带执行一次 SeedDefaults
	if _, err := database.InitDB(&cfg.Database, true); err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	log.Println("默认成就目录与鼓励短句写入完成")
}
