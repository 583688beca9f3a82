// Package services wraps the AWS calls behind the HTTP handlers.
//
// A single Client is created at startup and shared by every request; the
// aws-sdk-go-v2 service clients it holds are safe for concurrent use. No
// response is ever cached: each request resolves the load balancer and its
// target group against live provider state.
package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
)

// EC2API is the subset of the EC2 client used by this service.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// ELBV2API is the subset of the ELBv2 client used by this service.
type ELBV2API interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeTargetGroups(ctx context.Context, params *elbv2.DescribeTargetGroupsInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error)
	DescribeTargetHealth(ctx context.Context, params *elbv2.DescribeTargetHealthInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error)
	RegisterTargets(ctx context.Context, params *elbv2.RegisterTargetsInput, optFns ...func(*elbv2.Options)) (*elbv2.RegisterTargetsOutput, error)
	DeregisterTargets(ctx context.Context, params *elbv2.DeregisterTargetsInput, optFns ...func(*elbv2.Options)) (*elbv2.DeregisterTargetsOutput, error)
}

// Client holds the shared AWS service clients and the service configuration.
type Client struct {
	cfg   Config
	ec2   EC2API
	elbv2 ELBV2API
}

// NewClient builds the AWS service clients for the configured region.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		cfg:   cfg,
		ec2:   ec2.NewFromConfig(awsCfg),
		elbv2: elbv2.NewFromConfig(awsCfg),
	}, nil
}

// NewClientWithAPIs wires a Client onto existing API implementations.
// Used by tests to substitute fakes.
func NewClientWithAPIs(cfg Config, ec2Svc EC2API, elbv2Svc ELBV2API) *Client {
	return &Client{cfg: cfg, ec2: ec2Svc, elbv2: elbv2Svc}
}
