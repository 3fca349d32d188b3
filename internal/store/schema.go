package store

const schema = `
CREATE TABLE IF NOT EXISTS trend_snapshots (
    period TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    date TEXT NOT NULL,
    month TEXT NOT NULL,
    month_number INTEGER NOT NULL,
    year INTEGER NOT NULL,
    potential_savings REAL NOT NULL,
    insights_found INTEGER NOT NULL,
    non_compliant_spend REAL NOT NULL,
    duplicate_vendors INTEGER NOT NULL,
    contract_alerts INTEGER NOT NULL,
    categories_analyzed INTEGER NOT NULL,
    avg_savings_per_insight REAL NOT NULL,
    processing_time REAL NOT NULL,
    records_processed INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS contract_alerts (
    id TEXT PRIMARY KEY,
    vendor TEXT NOT NULL,
    contract_type TEXT,
    renewal_date TEXT NOT NULL,
    days_until_renewal INTEGER NOT NULL,
    annual_value REAL,
    priority TEXT NOT NULL,
    status TEXT NOT NULL,
    confidence REAL,
    evidence TEXT,
    created_at TIMESTAMP NOT NULL,
    dismissed_at TIMESTAMP,
    snoozed_until TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_alerts_status ON contract_alerts(status);
CREATE INDEX IF NOT EXISTS idx_alerts_renewal ON contract_alerts(renewal_date);
`
