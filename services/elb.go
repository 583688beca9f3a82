package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/smithy-go"

	"go.uber.org/zap"

	"sre-api/logger"
	"sre-api/metrics"
)

// Provider error codes checked on register/deregister responses.
const (
	errCodeDuplicateTarget = "DuplicateTargetFound"
	errCodeTargetNotFound  = "TargetNotFound"
)

var (
	// ErrTargetGroupNotFound - 로드밸런서 또는 타겟 그룹이 없음
	ErrTargetGroupNotFound = errors.New("load balancer does not exist or has no target group")

	// ErrMultipleTargetGroups means the load balancer has more than one
	// target group attached. The service only manages a single group, so
	// this is reported instead of silently picking the first one.
	ErrMultipleTargetGroups = errors.New("load balancer has more than one target group")

	// ErrDuplicateTarget - 인스턴스가 이미 타겟 그룹에 등록됨
	ErrDuplicateTarget = errors.New("instance is already attached to the load balancer")

	// ErrTargetNotAttached - 인스턴스가 타겟 그룹에 등록되어 있지 않음
	ErrTargetNotAttached = errors.New("instance is not attached to the load balancer")
)

// ResolveTargetGroup resolves the configured load balancer name to the ARN of
// its target group. The ARN is recomputed on every call; nothing is cached.
func (c *Client) ResolveTargetGroup(ctx context.Context) (string, error) {
	lbResp, err := c.elbv2.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
		Names: []string{c.cfg.LoadBalancerName},
	})
	if err != nil {
		metrics.AWSAPICalls.WithLabelValues("elbv2", "DescribeLoadBalancers", metrics.StatusError).Inc()
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "LoadBalancerNotFound" {
			return "", ErrTargetGroupNotFound
		}
		logger.Logger.Error("describe load balancer failed",
			zap.String("load_balancer", c.cfg.LoadBalancerName),
			zap.Error(err),
		)
		return "", ErrTargetGroupNotFound
	}
	metrics.AWSAPICalls.WithLabelValues("elbv2", "DescribeLoadBalancers", metrics.StatusSuccess).Inc()

	if len(lbResp.LoadBalancers) < 1 {
		return "", ErrTargetGroupNotFound
	}
	lbARN := aws.ToString(lbResp.LoadBalancers[0].LoadBalancerArn)

	tgResp, err := c.elbv2.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	if err != nil {
		metrics.AWSAPICalls.WithLabelValues("elbv2", "DescribeTargetGroups", metrics.StatusError).Inc()
		logger.Logger.Error("describe target groups failed",
			zap.String("load_balancer", c.cfg.LoadBalancerName),
			zap.Error(err),
		)
		return "", ErrTargetGroupNotFound
	}
	metrics.AWSAPICalls.WithLabelValues("elbv2", "DescribeTargetGroups", metrics.StatusSuccess).Inc()

	switch len(tgResp.TargetGroups) {
	case 0:
		return "", ErrTargetGroupNotFound
	case 1:
		return aws.ToString(tgResp.TargetGroups[0].TargetGroupArn), nil
	default:
		return "", fmt.Errorf("%w: found %d", ErrMultipleTargetGroups, len(tgResp.TargetGroups))
	}
}

// ListTargetInstances returns the InstanceInfo of every target registered in
// the target group, in the order the provider reports them. Targets whose
// instance lookup fails are dropped from the result.
func (c *Client) ListTargetInstances(ctx context.Context, targetGroupARN string) ([]InstanceInfo, error) {
	resp, err := c.elbv2.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
		TargetGroupArn: aws.String(targetGroupARN),
	})
	if err != nil {
		metrics.AWSAPICalls.WithLabelValues("elbv2", "DescribeTargetHealth", metrics.StatusError).Inc()
		return nil, err
	}
	metrics.AWSAPICalls.WithLabelValues("elbv2", "DescribeTargetHealth", metrics.StatusSuccess).Inc()

	instances := make([]InstanceInfo, 0, len(resp.TargetHealthDescriptions))
	for _, description := range resp.TargetHealthDescriptions {
		if description.Target == nil {
			continue
		}
		info := c.LookupInstance(ctx, aws.ToString(description.Target.Id))
		if info == nil {
			continue
		}
		instances = append(instances, *info)
	}
	return instances, nil
}

// RegisterInstance registers the instance in the target group on the
// configured target port.
func (c *Client) RegisterInstance(ctx context.Context, targetGroupARN, instanceID string) error {
	_, err := c.elbv2.RegisterTargets(ctx, &elbv2.RegisterTargetsInput{
		TargetGroupArn: aws.String(targetGroupARN),
		Targets: []elbv2types.TargetDescription{
			{
				Id:   aws.String(instanceID),
				Port: aws.Int32(c.cfg.TargetPort),
			},
		},
	})
	if err != nil {
		metrics.AWSAPICalls.WithLabelValues("elbv2", "RegisterTargets", metrics.StatusError).Inc()
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeDuplicateTarget {
			return ErrDuplicateTarget
		}
		return err
	}
	metrics.AWSAPICalls.WithLabelValues("elbv2", "RegisterTargets", metrics.StatusSuccess).Inc()
	return nil
}

// DeregisterInstance removes the instance from the target group. The target
// port is part of the target identity and must match the registration.
func (c *Client) DeregisterInstance(ctx context.Context, targetGroupARN, instanceID string) error {
	_, err := c.elbv2.DeregisterTargets(ctx, &elbv2.DeregisterTargetsInput{
		TargetGroupArn: aws.String(targetGroupARN),
		Targets: []elbv2types.TargetDescription{
			{
				Id:   aws.String(instanceID),
				Port: aws.Int32(c.cfg.TargetPort),
			},
		},
	})
	if err != nil {
		metrics.AWSAPICalls.WithLabelValues("elbv2", "DeregisterTargets", metrics.StatusError).Inc()
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeTargetNotFound {
			return ErrTargetNotAttached
		}
		return err
	}
	metrics.AWSAPICalls.WithLabelValues("elbv2", "DeregisterTargets", metrics.StatusSuccess).Inc()
	return nil
}
