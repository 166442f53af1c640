// Package visuate maintains a long-lived, append-only history of daily
// instrument prices and EUR-base exchange rates, reconciles it against
// market-data providers, and derives per-instrument multi-currency views.
//
// The core functionalities include:
//   - Time-Series Store: date-keyed price and rate books, rebuilt from a
//     persisted workbook at the start of a run and flushed back at the end,
//     with last-write-wins merge semantics.
//   - Gap Filling: detection of missing trading dates inside a sliding
//     lookback window, resolved from one bulk provider query per instrument
//     or currency, by exact date match or most-recent-prior fallback.
//   - Currency Conversion: normalization of foreign-denominated prices into
//     EUR using as-of historical rates, applied exactly once per new record.
//   - Multi-Currency Projection: fan-out of each instrument's EUR series
//     into every tracked currency, written as one workbook per instrument.
//   - Data Quality: coverage, staleness and overall health classification
//     feeding the report renderers and the process exit signal.
//
// This package serves as the foundational logic for the `vsu` command-line
// tool; every run is single-threaded and idempotent, so the automation
// environment invoking it may safely retry.
package visuate
