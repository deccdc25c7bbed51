package logx

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// maskingCore wraps a core and redacts sensitive structured fields and masks patterns in Entry.Message.
// It is intended to be used for console output only.
type maskingCore struct {
	zapcore.Core
	sensitive    map[string]struct{} // lowercased keys to redact
	maskPattern  *regexp.Regexp      // secret-looking text in messages
	replaceValue string
}

func NewMaskingCore(inner zapcore.Core) zapcore.Core {
	return &maskingCore{
		Core:         inner,
		sensitive:    defaultSensitiveKeys(),
		maskPattern:  defaultMaskPattern(),
		replaceValue: redacted,
	}
}

// With must keep the wrapper, otherwise fields bound via logger.With bypass redaction.
func (m *maskingCore) With(fields []zapcore.Field) zapcore.Core {
	return &maskingCore{
		Core:         m.Core.With(m.cloneFieldsWithRedaction(fields)),
		sensitive:    m.sensitive,
		maskPattern:  m.maskPattern,
		replaceValue: m.replaceValue,
	}
}

func (m *maskingCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if m.Enabled(entry.Level) {
		return ce.AddCore(entry, m)
	}
	return ce
}

func (m *maskingCore) cloneFieldsWithRedaction(fields []zapcore.Field) []zapcore.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		key := strings.ToLower(f.Key)
		if _, ok := m.sensitive[key]; ok {
			out = append(out, zap.String(f.Key, m.replaceValue))
			continue
		}
		out = append(out, f)
	}
	return out
}

func (m *maskingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if m.maskPattern != nil && entry.Message != "" {
		entry.Message = m.maskPattern.ReplaceAllString(entry.Message, m.replaceValue)
	}
	fields = m.cloneFieldsWithRedaction(fields)
	return m.Core.Write(entry, fields)
}

func defaultSensitiveKeys() map[string]struct{} {
	keys := []string{
		"private", "private_key", "privatekey",
		"priv", "secret", "secret_key", "mnemonic", "seed", "passphrase",
		"password", "raw", "raw_key", "raw_private", "key",
	}
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[strings.ToLower(k)] = struct{}{}
	}
	return m
}

func defaultMaskPattern() *regexp.Regexp {
	// base58 runs of 64+ chars (a 64-byte secret encodes to ~88) or a
	// 32+ element decimal byte list as written to .env
	pattern := `[1-9A-HJ-NP-Za-km-z]{64,}|\[\s*(?:\d{1,3}\s*,\s*){31,}\d{1,3}\s*\]`
	return regexp.MustCompile(pattern)
}
