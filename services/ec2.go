package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"go.uber.org/zap"

	"sre-api/logger"
	"sre-api/metrics"
)

// InstanceInfo is the per-request projection of an EC2 instance returned to
// API clients. Nothing about it is retained after the response is written.
type InstanceInfo struct {
	InstanceID   string `json:"instanceId"`
	InstanceType string `json:"instanceType"`
	LaunchDate   string `json:"launchDate"`
}

// LookupInstance resolves an instance id to its InstanceInfo. It returns nil
// both when the instance does not exist and when the describe call fails;
// callers cannot tell the two apart. The underlying error is logged here
// before being folded into absence.
func (c *Client) LookupInstance(ctx context.Context, instanceID string) *InstanceInfo {
	resp, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		metrics.AWSAPICalls.WithLabelValues("ec2", "DescribeInstances", metrics.StatusError).Inc()
		logger.Logger.Error("describe instance failed",
			zap.String("instance_id", instanceID),
			zap.Error(err),
		)
		return nil
	}
	metrics.AWSAPICalls.WithLabelValues("ec2", "DescribeInstances", metrics.StatusSuccess).Inc()

	if len(resp.Reservations) < 1 || len(resp.Reservations[0].Instances) < 1 {
		return nil
	}

	instance := resp.Reservations[0].Instances[0]
	info := &InstanceInfo{
		InstanceID:   aws.ToString(instance.InstanceId),
		InstanceType: string(instance.InstanceType),
	}
	if instance.LaunchTime != nil {
		info.LaunchDate = instance.LaunchTime.Format(time.RFC3339)
	}
	return info
}
