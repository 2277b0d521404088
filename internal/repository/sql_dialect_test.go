package repository

import (
	"strings"
	"testing"
)

func TestJSONTextExprByDialectSQLite(t *testing.T) {
	got := jsonTextExprByDialect("sqlite", "name_json", "zh-CN")
	want := "json_extract(name_json, '$.\"zh-CN\"')"
	if got != want {
		t.Fatalf("sqlite json expr mismatch, want %s got %s", want, got)
	}
}

func TestJSONTextExprByDialectPostgres(t *testing.T) {
	got := jsonTextExprByDialect("postgres", "name_json", "zh-CN")
	want := "(name_json::jsonb ->> 'zh-CN')"
	if got != want {
		t.Fatalf("postgres json expr mismatch, want %s got %s", want, got)
	}
}

func TestLocalizedJSONCoalesceExpr(t *testing.T) {
	expr := localizedJSONCoalesceExpr(nil, "name_json")
	if !strings.HasPrefix(expr, "COALESCE(") {
		t.Fatalf("expr should be a COALESCE, got %s", expr)
	}
	for _, key := range localizedJSONSearchKeys {
		if !strings.Contains(expr, key) {
			t.Fatalf("expr should contain locale %s, got %s", key, expr)
		}
	}
}

func TestMonthExprByDialect(t *testing.T) {
	if got := monthExprByDialect("sqlite", "orders.created_at"); got != "CAST(strftime('%m', orders.created_at) AS INTEGER)" {
		t.Fatalf("sqlite month expr mismatch, got %s", got)
	}
	if got := monthExprByDialect("postgres", "orders.created_at"); got != "CAST(EXTRACT(MONTH FROM orders.created_at) AS INTEGER)" {
		t.Fatalf("postgres month expr mismatch, got %s", got)
	}
}
