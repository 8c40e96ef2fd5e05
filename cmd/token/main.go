package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/qs3c/api_access_gate/config"
	"github.com/qs3c/api_access_gate/internal/pkg/jwt"
)

// 签发访问 token：
//
//	go run ./cmd/token -role admin -subject ops
//	go run ./cmd/token -role gateway -subject edge-1 -hours 720
func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	role := flag.String("role", jwt.RoleAdmin, "token role: admin, gateway or user")
	subject := flag.String("subject", "", "admin name, gateway name or user id")
	hours := flag.Int("hours", 0, "expire hours, defaults to jwt.expire_hours")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	expire := *hours
	if expire <= 0 {
		expire = cfg.JWT.ExpireHours
	}

	token, err := jwt.GenerateToken(*subject, *role, cfg.JWT.Secret, expire)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
