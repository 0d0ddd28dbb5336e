package flowbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyPattern(t *testing.T) {
	tests := []struct {
		request string
		wantKey string
	}{
		{"Move data from SQL Server into Iceberg tables", "sql_server_to_iceberg"},
		{"mssql to iceberg please", "sql_server_to_iceberg"},
		{"stream kafka events to s3", "kafka_to_s3"},
		{"pull from a REST api into postgres", "rest_api_to_database"},
		{"fetch http endpoint and load the database", "rest_api_to_database"},
		{"watch a directory for new files", "file_watcher"},
	}
	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			tmpl := IdentifyPattern(tt.request)
			require.NotNil(t, tmpl)
			assert.Equal(t, tt.wantKey, tmpl.Key)
		})
	}
}

func TestIdentifyPattern_NoMatch(t *testing.T) {
	assert.Nil(t, IdentifyPattern("make me a sandwich"))
}

func TestGetTemplate_Aliases(t *testing.T) {
	tests := []struct {
		name    string
		wantKey string
	}{
		{"sql_server_to_iceberg", "sql_server_to_iceberg"},
		{"SQL Server To Iceberg", "sql_server_to_iceberg"},
		{"kafka-s3", "kafka_to_s3"},
		{"api_to_db", "rest_api_to_database"},
		{"file watcher", "file_watcher"},
	}
	for _, tt := range tests {
		tmpl := GetTemplate(tt.name)
		require.NotNil(t, tmpl, tt.name)
		assert.Equal(t, tt.wantKey, tmpl.Key)
	}

	assert.Nil(t, GetTemplate("quantum_teleporter"))
}

func TestValidateRequirements(t *testing.T) {
	tmpl := kafkaToS3()

	ok, missing := ValidateRequirements(tmpl, map[string]string{})
	assert.False(t, ok)
	assert.Len(t, missing, tmpl.RequiredCount())

	values := map[string]string{
		"kafka_brokers":        "broker1:9092",
		"kafka_topic":          "events",
		"kafka_consumer_group": "nifi-s3",
		"s3_bucket":            "data-lake",
		"s3_prefix":            "raw/",
		"file_format":          "parquet",
	}
	ok, missing = ValidateRequirements(tmpl, values)
	assert.True(t, ok)
	assert.Empty(t, missing)

	// Whitespace-only values count as missing.
	values["s3_bucket"] = "   "
	ok, missing = ValidateRequirements(tmpl, values)
	assert.False(t, ok)
	assert.Equal(t, []string{"s3_bucket"}, missing)
}

func TestFormatRequirements(t *testing.T) {
	out := FormatRequirements(fileWatcher())

	assert.Contains(t, out, "File Watcher to Processing")
	assert.Contains(t, out, "**Required Information:**")
	assert.Contains(t, out, "**Optional Information:**")
	assert.Contains(t, out, "Source Directory")
	assert.Contains(t, out, "/data/incoming")
}

func TestAnalyzeRequest_Match(t *testing.T) {
	a := AnalyzeRequest("consume kafka and land it in s3")

	assert.True(t, a.PatternFound)
	assert.Equal(t, "Kafka to S3", a.TemplateName)
	assert.NotEmpty(t, a.RequirementsPrompt)
	assert.Contains(t, a.RequiredProcessors, "org.apache.nifi.processors.aws.s3.PutS3Object")
	assert.Equal(t, 6, a.RequirementCount)
}

func TestAnalyzeRequest_Fallback(t *testing.T) {
	a := AnalyzeRequest("do something unrecognizable")

	assert.False(t, a.PatternFound)
	assert.Len(t, a.AvailableTemplates, 4)
	assert.Contains(t, a.Message, "Kafka to S3")
}

func TestLinearFlow(t *testing.T) {
	points := LinearFlow(3, 100, 50, 350)
	require.Len(t, points, 3)
	assert.Equal(t, Point{X: 100, Y: 50}, points[0])
	assert.Equal(t, Point{X: 450, Y: 50}, points[1])
	assert.Equal(t, Point{X: 800, Y: 50}, points[2])
}

func TestBranchingFlow(t *testing.T) {
	points := BranchingFlow(2, 2, 0, 300)
	require.Len(t, points, 4)

	// Main line is horizontal.
	assert.Equal(t, points[0].Y, points[1].Y)
	// Branches share an X past the main line and fan out vertically.
	assert.Equal(t, points[2].X, points[3].X)
	assert.Greater(t, points[2].X, points[1].X)
	assert.NotEqual(t, points[2].Y, points[3].Y)
}
