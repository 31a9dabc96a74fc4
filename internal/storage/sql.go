package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at      DATETIME NOT NULL,
    input_file      TEXT NOT NULL,
    model           TEXT NOT NULL,
    processed       INTEGER NOT NULL,
    skipped         INTEGER NOT NULL,
    frequency_ghz   REAL,
    time_percentage INTEGER,
    polarization    INTEGER
);

CREATE TABLE IF NOT EXISTS results (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id        INTEGER NOT NULL REFERENCES runs (id),
    profile_index INTEGER NOT NULL,
    tx_id         TEXT,
    azimuth       REAL NOT NULL,
    distance_ring REAL,
    distance_km   REAL NOT NULL,
    num_points    INTEGER NOT NULL,
    tx_lat        REAL,
    tx_lon        REAL,
    rx_lat        REAL,
    rx_lon        REAL,
    lb            REAL NOT NULL,
    ep            REAL NOT NULL,
    elapsed_s     REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run_id ON results (run_id);`

const (
	insertRunSQL = `
INSERT INTO runs (
                  created_at,
                  input_file,
                  model,
                  processed,
                  skipped,
                  frequency_ghz,
                  time_percentage,
                  polarization)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectRunSQL = `
SELECT
    id,
    created_at,
    input_file,
    model,
    processed,
    skipped,
    frequency_ghz,
    time_percentage,
    polarization
FROM runs
WHERE
    id = ?`

	selectRunsSQL = `
SELECT
    id,
    created_at,
    input_file,
    model,
    processed,
    skipped,
    frequency_ghz,
    time_percentage,
    polarization
FROM runs
ORDER BY created_at`

	insertResultSQL = `
INSERT INTO results (run_id,
                     profile_index,
                     tx_id,
                     azimuth,
                     distance_ring,
                     distance_km,
                     num_points,
                     tx_lat,
                     tx_lon,
                     rx_lat,
                     rx_lon,
                     lb,
                     ep,
                     elapsed_s)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectResultsSQL = `
SELECT
    profile_index,
    tx_id,
    azimuth,
    distance_ring,
    distance_km,
    num_points,
    tx_lat,
    tx_lon,
    rx_lat,
    rx_lon,
    lb,
    ep,
    elapsed_s
FROM results
WHERE
    run_id = ?
ORDER BY profile_index`
)
