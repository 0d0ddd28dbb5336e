package secrets

// DefaultRules returns detection rules tuned to what leaks through NiFi flow
// configurations: gateway JWTs, cloud keys, and credentials embedded in
// connection strings.
func DefaultRules() []Rule {
	return []Rule{
		// Knox and NiFi single-user tokens are standard JWTs.
		{
			ID:          "jwt",
			Description: "JSON Web Token",
			Pattern:     `eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`,
		},

		// AWS credentials show up in PutS3Object and similar processors.
		{
			ID:          "aws-access-key-id",
			Description: "AWS Access Key ID",
			Pattern:     `(A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}`,
		},
		{
			ID:          "aws-secret-access-key",
			Description: "AWS Secret Access Key",
			Pattern:     `(?i)(?:aws_secret_access_key|secret_access_key)\s*[:=]\s*['"]?[A-Za-z0-9/+=]{40}['"]?`,
			Keywords:    []string{"aws", "secret"},
		},

		// JDBC URLs with inline passwords (DBCPConnectionPool properties).
		{
			ID:          "jdbc-password",
			Description: "Password embedded in JDBC connection string",
			Pattern:     `(?i)jdbc:[a-z0-9]+://[^\s'"]*password=[^\s'"&;]+`,
			Keywords:    []string{"jdbc"},
		},

		// Generic key/value credential assignments in free-text properties.
		{
			ID:          "generic-secret",
			Description: "Generic secret assignment",
			Pattern:     `(?i)(?:secret|password|passwd|passcode)\s*[:=]\s*['"]?[^\s'"]{8,}['"]?`,
			Keywords:    []string{"secret", "password", "passcode"},
		},
		{
			ID:          "generic-api-key",
			Description: "Generic API key assignment",
			Pattern:     `(?i)(?:api[_-]?key|apikey)\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,64}['"]?`,
			Keywords:    []string{"api", "key"},
		},

		// Keytabs and keystores reference key material directly.
		{
			ID:          "private-key",
			Description: "Private key block",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
		},
	}
}
