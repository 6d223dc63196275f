package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetricsClient_DisabledIsNoop(t *testing.T) {
	api := &fakeCloudWatch{}
	m := newMetricsClient(api, "", false)

	require.NoError(t, m.RecordCount(context.Background(), MetricOrdersCreated, nil))
	assert.Empty(t, api.inputs)
	assert.False(t, m.IsEnabled())

	var nilClient *MetricsClient
	assert.False(t, nilClient.IsEnabled())
	assert.NoError(t, nilClient.RecordCount(context.Background(), MetricOrdersCreated, nil))
}

func TestMetricsClient_RecordLatencySortsDimensions(t *testing.T) {
	api := &fakeCloudWatch{}
	m := newMetricsClient(api, "Shop", true)

	err := m.RecordLatency(context.Background(), MetricHTTPLatency, 1500*time.Millisecond, map[string]string{
		"Status": "2xx",
		"Method": "GET",
	})
	require.NoError(t, err)
	require.Len(t, api.inputs, 1)

	in := api.inputs[0]
	assert.Equal(t, "Shop", sdkaws.ToString(in.Namespace))
	datum := in.MetricData[0]
	assert.Equal(t, 1500.0, sdkaws.ToFloat64(datum.Value))
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "Method", sdkaws.ToString(datum.Dimensions[0].Name))
	assert.Equal(t, "Status", sdkaws.ToString(datum.Dimensions[1].Name))
}

type fakeSNS struct {
	last *sns.PublishInput
	err  error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.last = in
	return &sns.PublishOutput{}, f.err
}

func TestSNSClient_Publish(t *testing.T) {
	api := &fakeSNS{}
	c := newSNSClient(api, nil)

	require.NoError(t, c.Publish(context.Background(), "arn:topic", "order.placed", []byte(`{"a":1}`)))
	assert.Equal(t, `{"a":1}`, sdkaws.ToString(api.last.Message))
	assert.Equal(t, "order.placed", sdkaws.ToString(api.last.MessageAttributes["event_type"].StringValue))
}

func TestSNSClient_PublishErrors(t *testing.T) {
	api := &fakeSNS{err: errors.New("throttled")}
	c := newSNSClient(api, nil)

	assert.ErrorIs(t, c.Publish(context.Background(), "", "order.placed", nil), ErrEmptyTopic)
	assert.ErrorContains(t, c.Publish(context.Background(), "arn:topic", "", nil), "throttled")
}

type fakeSecrets struct {
	calls  int
	values map[string]string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	v, ok := f.values[sdkaws.ToString(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: sdkaws.String(v)}, nil
}

func TestSecretsClient_CachesValues(t *testing.T) {
	api := &fakeSecrets{values: map[string]string{"shop/db": `{"DB_PASSWORD":"s3cret"}`}}
	c := newSecretsClient(api)

	m, err := c.GetSecretMap(context.Background(), "shop/db")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", m["DB_PASSWORD"])

	_, err = c.GetSecret(context.Background(), "shop/db")
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)

	_, err = c.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSecretsClient_RejectsNonJSONMap(t *testing.T) {
	c := newSecretsClient(&fakeSecrets{values: map[string]string{"plain": "hunter2"}})

	_, err := c.GetSecretMap(context.Background(), "plain")
	assert.ErrorContains(t, err, "not a JSON object")
}

type fakeLogs struct {
	groupErr error
	events   []logtypes.InputLogEvent
	tokens   []*string
}

func (f *fakeLogs) CreateLogGroup(context.Context, *cloudwatchlogs.CreateLogGroupInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	return &cloudwatchlogs.CreateLogGroupOutput{}, f.groupErr
}

func (f *fakeLogs) PutRetentionPolicy(context.Context, *cloudwatchlogs.PutRetentionPolicyInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(context.Context, *cloudwatchlogs.CreateLogStreamInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.events = append(f.events, in.LogEvents...)
	f.tokens = append(f.tokens, in.SequenceToken)
	return &cloudwatchlogs.PutLogEventsOutput{NextSequenceToken: sdkaws.String("next")}, nil
}

func TestCloudWatchLogsClient_WriteShipsLines(t *testing.T) {
	api := &fakeLogs{groupErr: &logtypes.ResourceAlreadyExistsException{}}
	c, err := newCloudWatchLogsClient(context.Background(), api, "", "shop")
	require.NoError(t, err)

	n, err := c.Write([]byte("first"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	_, _ = c.Write([]byte("second"))

	require.Len(t, api.events, 2)
	assert.Equal(t, "second", sdkaws.ToString(api.events[1].Message))
	assert.Nil(t, api.tokens[0])
	assert.Equal(t, "next", sdkaws.ToString(api.tokens[1]))
}

func TestCloudWatchLogsClient_GroupFailure(t *testing.T) {
	_, err := newCloudWatchLogsClient(context.Background(), &fakeLogs{groupErr: errors.New("denied")}, "/g", "shop")
	assert.ErrorContains(t, err, "denied")
}
