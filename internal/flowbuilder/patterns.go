// Package flowbuilder guides flow construction by matching user requests to
// known data-integration patterns and listing the requirements each needs.
package flowbuilder

// Requirement is one piece of information the user must supply before a
// flow can be built.
type Requirement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Example     string `json:"example,omitempty"`
}

// Template describes one flow pattern: what it does, what it needs, and
// which processors implement it.
type Template struct {
	Key            string        `json:"key"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Requirements   []Requirement `json:"requirements"`
	ProcessorTypes []string      `json:"processor_types"`
}

// RequiredCount returns how many requirements are mandatory.
func (t *Template) RequiredCount() int {
	n := 0
	for _, r := range t.Requirements {
		if r.Required {
			n++
		}
	}
	return n
}

func sqlServerToIceberg() *Template {
	return &Template{
		Key:         "sql_server_to_iceberg",
		Name:        "SQL Server to Iceberg",
		Description: "Extract data from SQL Server and write to Iceberg tables",
		Requirements: []Requirement{
			{Name: "sql_server_host", Description: "SQL Server hostname or IP address", Required: true, Example: "sqlserver.example.com"},
			{Name: "sql_server_port", Description: "SQL Server port", Required: true, Default: "1433", Example: "1433"},
			{Name: "sql_server_database", Description: "Database name to query", Required: true, Example: "ProductionDB"},
			{Name: "sql_server_username", Description: "SQL Server username", Required: true, Example: "nifi_user"},
			{Name: "sql_server_password", Description: "SQL Server password (stored as sensitive property)", Required: true, Example: "********"},
			{Name: "sql_query", Description: "SQL query to extract data", Example: "SELECT * FROM customers WHERE updated_date > ?"},
			{Name: "sql_table", Description: "Table name (if not using custom query)", Example: "customers"},
			{Name: "iceberg_catalog_uri", Description: "Iceberg catalog URI", Required: true, Example: "thrift://iceberg-catalog:9083"},
			{Name: "iceberg_warehouse_path", Description: "Iceberg warehouse path (S3 or HDFS)", Required: true, Example: "s3://my-bucket/warehouse"},
			{Name: "iceberg_table_name", Description: "Target Iceberg table name", Required: true, Example: "default.customers"},
			{Name: "schedule_interval", Description: "How often to run the flow", Required: true, Default: "1 hour", Example: "5 min, 1 hour, 1 day"},
			{Name: "batch_size", Description: "Number of records per batch", Required: true, Default: "10000", Example: "1000, 10000, 100000"},
		},
		ProcessorTypes: []string{
			"org.apache.nifi.processors.standard.GenerateTableFetch",
			"org.apache.nifi.processors.standard.ExecuteSQLRecord",
			"org.apache.nifi.dbcp.DBCPConnectionPool",
			"org.apache.nifi.serialization.JsonRecordSetWriter",
			"org.apache.nifi.serialization.AvroReader",
			"org.apache.nifi.processors.iceberg.PutIceberg",
		},
	}
}

func kafkaToS3() *Template {
	return &Template{
		Key:         "kafka_to_s3",
		Name:        "Kafka to S3",
		Description: "Consume from Kafka and write to S3 with optional transformations",
		Requirements: []Requirement{
			{Name: "kafka_brokers", Description: "Kafka broker addresses (comma-separated)", Required: true, Example: "broker1:9092,broker2:9092"},
			{Name: "kafka_topic", Description: "Kafka topic to consume from", Required: true, Example: "events"},
			{Name: "kafka_consumer_group", Description: "Consumer group ID", Required: true, Example: "nifi-s3-consumer"},
			{Name: "s3_bucket", Description: "S3 bucket name", Required: true, Example: "my-data-lake"},
			{Name: "s3_prefix", Description: "S3 key prefix/path", Required: true, Example: "raw/events/"},
			{Name: "file_format", Description: "Output file format", Required: true, Default: "parquet", Example: "parquet, json, avro"},
		},
		ProcessorTypes: []string{
			"org.apache.nifi.processors.kafka.pubsub.ConsumeKafka_2_6",
			"org.apache.nifi.processors.aws.s3.PutS3Object",
		},
	}
}

func restAPIToDatabase() *Template {
	return &Template{
		Key:         "rest_api_to_database",
		Name:        "REST API to Database",
		Description: "Fetch data from REST API and load into database",
		Requirements: []Requirement{
			{Name: "api_url", Description: "REST API endpoint URL", Required: true, Example: "https://api.example.com/v1/data"},
			{Name: "api_auth_type", Description: "Authentication type", Required: true, Default: "none", Example: "none, bearer, basic"},
			{Name: "api_token", Description: "API token/key (if auth required)", Example: "Bearer xyz123..."},
			{Name: "db_host", Description: "Database hostname", Required: true, Example: "postgres.example.com"},
			{Name: "db_port", Description: "Database port", Required: true, Example: "5432"},
			{Name: "db_name", Description: "Database name", Required: true, Example: "analytics"},
			{Name: "db_table", Description: "Target table name", Required: true, Example: "api_data"},
		},
		ProcessorTypes: []string{
			"org.apache.nifi.processors.standard.InvokeHTTP",
			"org.apache.nifi.processors.standard.ConvertRecord",
			"org.apache.nifi.processors.standard.PutDatabaseRecord",
		},
	}
}

func fileWatcher() *Template {
	return &Template{
		Key:         "file_watcher",
		Name:        "File Watcher to Processing",
		Description: "Monitor directory for files and process them",
		Requirements: []Requirement{
			{Name: "source_directory", Description: "Directory to monitor for files", Required: true, Example: "/data/incoming"},
			{Name: "file_pattern", Description: "File pattern to match", Required: true, Default: `.*\.csv`, Example: `.*\.csv, .*\.json, data-.*\.txt`},
			{Name: "target_directory", Description: "Directory to write processed files", Required: true, Example: "/data/processed"},
			{Name: "archive_directory", Description: "Directory to archive original files", Example: "/data/archive"},
		},
		ProcessorTypes: []string{
			"org.apache.nifi.processors.standard.GetFile",
			"org.apache.nifi.processors.standard.UpdateAttribute",
			"org.apache.nifi.processors.standard.PutFile",
		},
	}
}

// templateAliases maps lookup keys to template constructors. Multiple aliases
// point at the same pattern.
var templateAliases = map[string]func() *Template{
	"sql_server_to_iceberg": sqlServerToIceberg,
	"sql_to_iceberg":        sqlServerToIceberg,
	"database_to_iceberg":   sqlServerToIceberg,
	"kafka_to_s3":           kafkaToS3,
	"kafka_s3":              kafkaToS3,
	"rest_api_to_database":  restAPIToDatabase,
	"api_to_db":             restAPIToDatabase,
	"file_watcher":          fileWatcher,
	"file_monitoring":       fileWatcher,
}

// Templates returns every distinct template.
func Templates() []*Template {
	return []*Template{sqlServerToIceberg(), kafkaToS3(), restAPIToDatabase(), fileWatcher()}
}
