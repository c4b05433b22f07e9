// Bobbind is the movement control daemon for a Bobbin unit. It runs the
// 20 Hz movement manager against the robot daemon's HTTP API and exposes a
// local control surface plus an optional conductor bridge.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bobbin-robotics/go-bobbin/internal/config"
	"github.com/bobbin-robotics/go-bobbin/internal/log"
	"github.com/bobbin-robotics/go-bobbin/pkg/actuator"
	"github.com/bobbin-robotics/go-bobbin/pkg/bridge"
	"github.com/bobbin-robotics/go-bobbin/pkg/emotions"
	"github.com/bobbin-robotics/go-bobbin/pkg/motion"
	"github.com/bobbin-robotics/go-bobbin/pkg/web"
)

// shutdownGrace bounds how long we wait for the control loop to exit.
const shutdownGrace = 3 * time.Second

func main() {
	_ = godotenv.Load()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	robotIP := flag.String("robot-ip", "", "Robot IP address (overrides ROBOT_IP env var)")
	webPort := flag.String("web-port", "", "Control server port (overrides WEB_PORT env var)")
	conductorURL := flag.String("conductor", "", "Conductor WebSocket URL (overrides CONDUCTOR_URL env var)")
	emotionsDir := flag.String("emotions-dir", "", "Directory of custom emotion clips")
	tickRate := flag.Float64("tick-rate", 0, "Control loop rate in Hz (overrides default)")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	ip := *robotIP
	if ip == "" {
		ip = config.RobotIP("127.0.0.1")
	}
	port := *webPort
	if port == "" {
		port = config.EnvStr("WEB_PORT", config.DefaultWebPort)
	}
	conductor := *conductorURL
	if conductor == "" {
		conductor = os.Getenv("CONDUCTOR_URL")
	}

	cfg := motion.DefaultConfig()
	cfg.TickRate = config.EnvFloat("TICK_RATE", cfg.TickRate)
	cfg.QueueCapacity = config.EnvInt("QUEUE_CAPACITY", cfg.QueueCapacity)
	if *tickRate > 0 {
		cfg.TickRate = *tickRate
	}

	library := emotions.NewLibrary()
	if err := library.LoadBuiltIn(); err != nil {
		log.Error("failed to load built-in emotions", "error", err)
		os.Exit(1)
	}
	if *emotionsDir != "" {
		if err := library.LoadCustomDir(*emotionsDir); err != nil {
			log.Warn("failed to load custom emotions", "dir", *emotionsDir, "error", err)
		}
	}
	log.Info("emotion library ready", "count", library.Count())

	act := actuator.NewHTTPActuator(config.RobotAPIURL(ip), cfg.SendTimeout)
	manager := motion.NewManager(cfg, act, library)

	server := web.NewServer(port, manager, library)
	server.StartAsync()

	var link *bridge.Client
	if conductor != "" {
		link = bridge.New(conductor, manager)
		go link.Run()
	}

	go manager.Run()
	log.Info("bobbind running", "robot", ip, "web_port", port, "rate_hz", cfg.TickRate)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	if link != nil {
		link.Close()
	}
	if err := server.Shutdown(); err != nil {
		log.Warn("control server shutdown failed", "error", err)
	}

	// Prefer the graceful path through the command queue; fall back to the
	// stop signal if the queue is full or the loop does not drain in time.
	if err := manager.Shutdown(); err != nil {
		manager.Stop()
	}
	select {
	case <-manager.Done():
	case <-time.After(shutdownGrace):
		manager.Stop()
		select {
		case <-manager.Done():
		case <-time.After(shutdownGrace):
			log.Warn("control loop did not exit cleanly")
		}
	}

	log.Info("bobbind stopped")
}
