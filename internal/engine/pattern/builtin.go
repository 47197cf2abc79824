package pattern

import (
	"time"

	"github.com/vietddude/remedy/internal/core/domain"
)

// builtinPatterns returns the default catalog entries. Registration order
// doubles as classification priority, so the more specific patterns come
// first.
func builtinPatterns() []*domain.ErrorPattern {
	now := time.Now()
	return []*domain.ErrorPattern{
		{
			ID:              "connection_refused",
			Name:            "Connection Refused",
			Regex:           `connection\s*refused|ECONNREFUSED|WinError 10061`,
			MessageContains: []string{"connection refused"},
			ErrorTypes:      []string{domain.TypeConnectionRefused, "Unavailable"},
			Severity:        domain.SeverityMedium,
			DefaultStrategy: domain.StrategyRetry,
			Description:     "Server or service is not accepting connections",
			RecoveryHints: []string{
				"Check if server is running",
				"Verify port number is correct",
				"Check firewall rules",
			},
			Created: now,
		},
		{
			ID:              "timeout",
			Name:            "Operation Timeout",
			Regex:           `timed?\s*out|TimeoutError|deadline exceeded|ETIMEDOUT`,
			MessageContains: []string{"timeout", "timed out"},
			ErrorTypes:      []string{domain.TypeTimeout, domain.TypeDeadlineExceeded},
			Severity:        domain.SeverityMedium,
			DefaultStrategy: domain.StrategyRetryModified,
			Description:     "Operation took too long to complete",
			RecoveryHints: []string{
				"Increase timeout value",
				"Check network connectivity",
				"Reduce operation scope",
			},
			Created: now,
		},
		{
			ID:              "file_not_found",
			Name:            "File Not Found",
			Regex:           `file\s*not\s*found|No such file|ENOENT|FileNotFoundError`,
			MessageContains: []string{"file not found", "no such file"},
			ErrorTypes:      []string{domain.TypeFileNotFound, "NotFound"},
			Severity:        domain.SeverityMedium,
			DefaultStrategy: domain.StrategyFallback,
			Description:     "Requested file does not exist",
			RecoveryHints: []string{
				"Check file path is correct",
				"Verify file hasn't been moved/deleted",
				"Create file if appropriate",
			},
			Created: now,
		},
		{
			ID:              "permission_denied",
			Name:            "Permission Denied",
			Regex:           `permission\s*denied|access\s*denied|EACCES|PermissionError`,
			MessageContains: []string{"permission denied", "access denied"},
			ErrorTypes:      []string{domain.TypePermission, "PermissionDenied"},
			Severity:        domain.SeverityHigh,
			DefaultStrategy: domain.StrategyEscalate,
			Description:     "Insufficient permissions for operation",
			RecoveryHints: []string{
				"Check file/directory permissions",
				"Run with elevated privileges if appropriate",
				"Contact administrator",
			},
			Created: now,
		},
		{
			ID:              "memory_error",
			Name:            "Memory Error",
			Regex:           `out\s*of\s*memory|MemoryError|memory allocation|heap`,
			MessageContains: []string{"memory", "heap"},
			ErrorTypes:      []string{"MemoryError"},
			Severity:        domain.SeverityHigh,
			DefaultStrategy: domain.StrategyRetryModified,
			Description:     "Insufficient memory for operation",
			RecoveryHints: []string{
				"Process data in smaller chunks",
				"Free up memory before retry",
				"Increase available memory",
			},
			Created: now,
		},
		{
			ID:              "rate_limit",
			Name:            "Rate Limited",
			Regex:           `rate\s*limit|too\s*many\s*requests|429|throttl`,
			MessageContains: []string{"rate limit", "too many requests", "throttled"},
			ErrorTypes:      []string{"ResourceExhausted"},
			Severity:        domain.SeverityLow,
			DefaultStrategy: domain.StrategyRetry,
			Description:     "API rate limit exceeded",
			RecoveryHints: []string{
				"Wait before retrying",
				"Implement exponential backoff",
				"Reduce request frequency",
			},
			Created: now,
		},
		{
			ID:              "json_decode",
			Name:            "JSON Decode Error",
			Regex:           `JSONDecodeError|json\.decoder|Expecting value|Invalid JSON`,
			MessageContains: []string{"json", "decode", "parse error"},
			ErrorTypes:      []string{"JSONDecodeError"},
			Severity:        domain.SeverityMedium,
			DefaultStrategy: domain.StrategySkip,
			Description:     "Failed to parse JSON data",
			RecoveryHints: []string{
				"Validate JSON syntax",
				"Check for encoding issues",
				"Handle empty responses",
			},
			Created: now,
		},
		{
			ID:              "network_unreachable",
			Name:            "Network Unreachable",
			Regex:           `network\s*(is\s*)?unreachable|ENETUNREACH|no route|DNS`,
			MessageContains: []string{"network unreachable", "no route"},
			Severity:        domain.SeverityHigh,
			DefaultStrategy: domain.StrategyRetry,
			Description:     "Network connectivity issue",
			RecoveryHints: []string{
				"Check network connection",
				"Verify DNS resolution",
				"Check VPN/proxy settings",
			},
			Created: now,
		},
		{
			ID:              "disk_full",
			Name:            "Disk Full",
			Regex:           `disk\s*full|no\s*space|ENOSPC|disk quota`,
			MessageContains: []string{"disk full", "no space left", "quota"},
			Severity:        domain.SeverityCritical,
			DefaultStrategy: domain.StrategyEscalate,
			Description:     "Insufficient disk space",
			RecoveryHints: []string{
				"Free up disk space",
				"Clean temporary files",
				"Extend storage",
			},
			Created: now,
		},
		{
			ID:              "auth_error",
			Name:            "Authentication Error",
			Regex:           `auth.*fail|401|unauthorized|invalid\s*(token|credential|api\s*key)`,
			MessageContains: []string{"authentication", "unauthorized", "invalid token"},
			ErrorTypes:      []string{"Unauthenticated"},
			Severity:        domain.SeverityHigh,
			DefaultStrategy: domain.StrategyEscalate,
			Description:     "Authentication or authorization failure",
			RecoveryHints: []string{
				"Verify credentials",
				"Refresh authentication token",
				"Check API key validity",
			},
			Created: now,
		},
		{
			ID:              "import_error",
			Name:            "Import Error",
			Regex:           `ImportError|ModuleNotFoundError|No module named`,
			MessageContains: []string{"import error", "no module named"},
			ErrorTypes:      []string{"ImportError", "ModuleNotFoundError"},
			Severity:        domain.SeverityHigh,
			DefaultStrategy: domain.StrategyFallback,
			Description:     "Failed to import required module",
			RecoveryHints: []string{
				"Install missing package",
				"Check module search path",
				"Verify package name",
			},
			Created: now,
		},
		{
			ID:              "syntax_error",
			Name:            "Syntax Error",
			Regex:           `SyntaxError|invalid syntax|unexpected (token|EOF)`,
			ErrorTypes:      []string{"SyntaxError"},
			Severity:        domain.SeverityHigh,
			DefaultStrategy: domain.StrategyAbort,
			Description:     "Invalid syntax in source or input",
			RecoveryHints: []string{
				"Check code for typos",
				"Verify parentheses/brackets match",
				"Review recent changes",
			},
			Created: now,
		},
	}
}
