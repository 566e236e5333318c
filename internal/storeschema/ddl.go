package storeschema

// The statements below run unchanged on DuckDB and PostgreSQL.

const createAccountsTable = `
CREATE TABLE IF NOT EXISTS {accounts} (
    _id TEXT PRIMARY KEY,
    name TEXT,
    type TEXT,
    status TEXT,
    connection_name TEXT,
    meta__loan_details__purpose TEXT,
    meta__loan_details__type TEXT,
    meta__loan_details__interest__rate DOUBLE PRECISION,
    meta__loan_details__interest__type TEXT,
    meta__loan_details__interest__expires_at TIMESTAMP,
    meta__loan_details__is_interest_only BOOLEAN,
    meta__loan_details__term__years BIGINT,
    meta__loan_details__term__months BIGINT,
    meta__loan_details__matures_at TIMESTAMP,
    meta__loan_details__initial_principal DOUBLE PRECISION,
    meta__loan_details__repayment__frequency TEXT,
    meta__loan_details__repayment__next_date TIMESTAMP,
    meta__loan_details__repayment__next_amount DOUBLE PRECISION,
    load_batch_id TEXT NOT NULL
)`

// Amounts are kept as text, exactly as received; the views cast them.
const createAccountBalancesTable = `
CREATE TABLE IF NOT EXISTS {account_balances} (
    account_id TEXT NOT NULL,
    snapshot_at TIMESTAMP NOT NULL,
    snapshot_date DATE NOT NULL,
    account_name TEXT,
    account_type TEXT,
    connection_name TEXT,
    status TEXT,
    currency TEXT,
    current TEXT,
    available TEXT,
    "limit" TEXT,
    overdrawn BOOLEAN,
    refreshed_balance_at TIMESTAMP,
    raw_balance TEXT,
    load_batch_id TEXT NOT NULL,
    PRIMARY KEY (account_id, snapshot_date)
)`

const createStgAccountsView = `
CREATE OR REPLACE VIEW {stg_akahu_accounts} AS
SELECT
    _id AS account_id,
    name AS account_name,
    type AS account_type,
    CASE WHEN lower(coalesce(type, '')) LIKE '%credit%' OR lower(coalesce(type, '')) LIKE '%card%'
         THEN true ELSE false END AS is_credit_card,
    status,
    connection_name,
    meta__loan_details__interest__rate AS loan_interest_rate,
    meta__loan_details__interest__type AS loan_interest_type,
    meta__loan_details__interest__expires_at AS loan_interest_expires_at,
    meta__loan_details__is_interest_only AS is_interest_only,
    meta__loan_details__term__years AS term_years,
    meta__loan_details__term__months AS term_months,
    meta__loan_details__matures_at AS loan_matures_at,
    meta__loan_details__initial_principal AS loan_initial_principal,
    meta__loan_details__repayment__frequency AS repayment_frequency,
    meta__loan_details__repayment__next_date AS repayment_next_date,
    meta__loan_details__repayment__next_amount AS repayment_next_amount,
    load_batch_id
FROM {accounts}`

const createAccountDailyBalancesView = `
CREATE OR REPLACE VIEW {fct_account_daily_balances} AS
SELECT
    account_id,
    snapshot_date,
    CAST(NULLIF(current, '') AS DOUBLE PRECISION) AS current_balance,
    CAST(NULLIF(available, '') AS DOUBLE PRECISION) AS available_balance,
    CAST(NULLIF("limit", '') AS DOUBLE PRECISION) AS credit_limit,
    currency,
    CASE WHEN lower(coalesce(account_type, '')) LIKE '%credit%' OR lower(coalesce(account_type, '')) LIKE '%card%'
         THEN true ELSE false END AS is_credit_card,
    account_type,
    coalesce(overdrawn, false) AS overdrawn,
    load_batch_id,
    snapshot_at AS last_snapshot_at
FROM {account_balances}`

const createMortgageOverTimeView = `
CREATE OR REPLACE VIEW {fct_mortgage_over_time} AS
SELECT
    snapshot_date,
    SUM(CASE WHEN upper(coalesce(account_type, '')) = 'LOAN'
             THEN coalesce(CAST(NULLIF(current, '') AS DOUBLE PRECISION), 0) ELSE 0 END) AS total_mortgage_balance,
    SUM(CASE WHEN lower(coalesce(account_type, '')) LIKE '%credit%' OR lower(coalesce(account_type, '')) LIKE '%card%'
             THEN coalesce(CAST(NULLIF(current, '') AS DOUBLE PRECISION), 0) ELSE 0 END) AS total_creditcard_balance,
    SUM(coalesce(CAST(NULLIF(current, '') AS DOUBLE PRECISION), 0)) AS total_net_debt,
    SUM(coalesce(CAST(NULLIF(available, '') AS DOUBLE PRECISION), 0)) AS total_available,
    SUM(coalesce(CAST(NULLIF("limit", '') AS DOUBLE PRECISION), 0)) AS total_limit
FROM {account_balances}
GROUP BY snapshot_date`

const createLoanAccountsView = `
CREATE OR REPLACE VIEW {dim_loan_accounts} AS
SELECT
    account_id,
    CAST(loan_interest_rate AS DOUBLE PRECISION) AS loan_interest_rate
FROM {stg_akahu_accounts}
WHERE upper(coalesce(account_type, '')) = 'LOAN'`
