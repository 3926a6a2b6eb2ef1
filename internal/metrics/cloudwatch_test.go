package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakeCloudWatch) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, in := range f.inputs {
		for _, d := range in.MetricData {
			out = append(out, aws.ToString(d.MetricName))
		}
	}
	return out
}

func dimension(in *cloudwatch.PutMetricDataInput, name string) string {
	for _, d := range in.MetricData[0].Dimensions {
		if aws.ToString(d.Name) == name {
			return aws.ToString(d.Value)
		}
	}
	return ""
}

func newTestClient(fake *fakeCloudWatch) *Client {
	return &Client{client: fake, enabled: true, environment: "test"}
}

func TestNewClientDisabledOutsideProduction(t *testing.T) {
	c, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	// Disabled clients accept calls without publishing
	c.RecordAPIRequest("/health", 200, time.Millisecond)
	c.RecordProgressionGenerated("pattern", 4, false)
	c.RecordTheoryError("scale.build")
}

func TestRecordAPIRequest(t *testing.T) {
	fake := &fakeCloudWatch{}
	c := newTestClient(fake)

	c.RecordAPIRequest("/api/v1/scales", 200, 15*time.Millisecond)
	c.RecordAPIRequest("/api/v1/scales", 503, time.Millisecond)

	assert.Equal(t, []string{"APIRequests", "APILatency", "APIErrors", "APILatency"}, fake.names())
	assert.Equal(t, namespace, aws.ToString(fake.inputs[0].Namespace))
	assert.Equal(t, "/api/v1/scales", dimension(fake.inputs[0], "Endpoint"))
	assert.Equal(t, types.StandardUnitMilliseconds, fake.inputs[1].MetricData[0].Unit)
	assert.Equal(t, 15.0, aws.ToFloat64(fake.inputs[1].MetricData[0].Value))
}

func TestRecordProgressionGenerated(t *testing.T) {
	fake := &fakeCloudWatch{}
	c := newTestClient(fake)

	c.RecordProgressionGenerated("random", 8, true)

	require.Len(t, fake.inputs, 2)
	assert.Equal(t, []string{"ProgressionsGenerated", "ProgressionLength"}, fake.names())
	assert.Equal(t, "random", dimension(fake.inputs[0], "Source"))
	assert.Equal(t, "true", dimension(fake.inputs[0], "Persisted"))
	assert.Equal(t, 8.0, aws.ToFloat64(fake.inputs[1].MetricData[0].Value))
}

func TestRecordTheoryError(t *testing.T) {
	fake := &fakeCloudWatch{}
	newTestClient(fake).RecordTheoryError("roman.parse")

	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "roman.parse", dimension(fake.inputs[0], "Operation"))
}
