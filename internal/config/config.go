// Package config provides configuration helpers for go-bobbin commands.
package config

import (
	"os"
	"strconv"
)

// Default daemon connection settings.
const (
	DefaultRobotPort = "8000"
	DefaultWebPort   = "8080"
)

// RobotIP returns the robot IP from ROBOT_IP env var.
// Falls back to the provided default if not set.
func RobotIP(defaultIP string) string {
	if ip := os.Getenv("ROBOT_IP"); ip != "" {
		return ip
	}
	return defaultIP
}

// RobotAPIURL returns the robot daemon HTTP API URL.
func RobotAPIURL(robotIP string) string {
	return "http://" + robotIP + ":" + EnvStr("ROBOT_PORT", DefaultRobotPort)
}

// EnvStr returns the value of key, or fallback if unset.
func EnvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt returns the integer value of key, or fallback if unset or invalid.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// EnvFloat returns the float value of key, or fallback if unset or invalid.
func EnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
