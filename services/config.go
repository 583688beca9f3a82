package services

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultRegion is used when AWS_REGION is not set
	DefaultRegion = "us-east-1"

	// DefaultLoadBalancerName is the load balancer every request operates on
	// unless LOAD_BALANCER_NAME overrides it
	DefaultLoadBalancerName = "default-alb"

	// DefaultTargetPort is the instance port targets are registered on
	DefaultTargetPort = 80
)

// Config - 서비스 설정 (환경 변수에서 로드)
type Config struct {
	Region           string
	LoadBalancerName string
	TargetPort       int32
}

// LoadConfig reads the service configuration from the environment,
// falling back to defaults for anything unset.
func LoadConfig() (Config, error) {
	cfg := Config{
		Region:           DefaultRegion,
		LoadBalancerName: DefaultLoadBalancerName,
		TargetPort:       DefaultTargetPort,
	}

	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Region = region
	}
	if name := os.Getenv("LOAD_BALANCER_NAME"); name != "" {
		cfg.LoadBalancerName = name
	}
	if port := os.Getenv("TARGET_PORT"); port != "" {
		p, err := strconv.ParseInt(port, 10, 32)
		if err != nil || p < 1 || p > 65535 {
			return Config{}, fmt.Errorf("invalid TARGET_PORT %q: must be a port number", port)
		}
		cfg.TargetPort = int32(p)
	}

	return cfg, nil
}
