package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
)

const ServiceName = "atlantic"

// ServiceProgram implements service.Interface around an Agent.
type ServiceProgram struct {
	agent *Agent
}

func (p *ServiceProgram) Start(s service.Service) error {
	logrus.Infoln("Atlantic watcher service starting")
	go p.run()
	return nil
}

func (p *ServiceProgram) run() {
	if err := p.agent.Start(context.Background()); err != nil {
		logrus.WithError(err).Errorln("Failed to start the watcher service")
		return
	}
	logrus.Infoln("Atlantic watcher service is running")
}

func (p *ServiceProgram) Stop(s service.Service) error {
	logrus.Infoln("Atlantic watcher service stopping")
	p.agent.Stop()
	return nil
}

// CreateService wraps the watcher and relay for the platform service
// manager. The installed service re-runs this binary as "watch --serve".
func CreateService(cfg *config.Config, source StatusSource, session *sessions.Session) (service.Service, error) {

	svcConfig, err := getServiceConfig(cfg)
	if err != nil {
		return nil, err
	}

	prg := &ServiceProgram{
		agent: NewAgent(cfg, source, session, true),
	}

	return service.New(prg, svcConfig)
}

func getServiceConfig(cfg *config.Config) (*service.Config, error) {

	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable path: %w", err)
	}

	arguments := []string{"watch", "--serve"}
	if configFile := cfg.GetConfigFile(); len(configFile) > 0 {
		arguments = append(arguments, "--config", configFile)
	}

	return &service.Config{
		Name:        ServiceName,
		DisplayName: "AtlanticProxy Watcher",
		Description: "AtlanticProxy status watcher with a local relay for connection and kill switch notifications",
		Executable:  exePath,
		Arguments:   arguments,
	}, nil
}
