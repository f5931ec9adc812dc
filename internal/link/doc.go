// Package link monitors wireless link health and escalates recovery.
//
// # States
//
//	Connected ──radio drop──▶ Disconnected(t0) ──bounded reconnect ok──▶ Connected
//	                               │
//	                   now-t0 ≥ ReconnectTimeout
//	                               ▼
//	                        Reprovisioning ──portal ok / old network back──▶ Connected
//	                               │
//	                         portal timeout
//	                               ▼
//	                          ErrRestart
//
// Recovering is reported while a bounded reconnect is in flight. Outage
// time is measured with time.Time.Sub on monotonic readings, so wall clock
// jumps do not shorten or extend the recovery budget.
//
// # Host Implementations
//
// HostRadio and FilePortal stand in for the radio and captive portal when
// the sign runs on a workstation. Credentials live in a TOML file; clearing
// it drops the association and writing it completes provisioning.
package link
