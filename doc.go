/*
Package dbmigrate applies and reverts versioned SQL migrations.

Migrations are pairs of files named <id>_<slug>.up.sql and <id>_<slug>.down.sql
kept in one directory. The id is a decimal number, migrations are run in its numeric order.
Which migrations are applied is recorded in a table of the target database (schema_migrations by default).

	Features:
	* postgres (lib/pq or pgx), mysql and sqlite databases
	* status, up, down, rollback and reset actions
	* each migration runs together with its bookkeeping in one transaction
	* execution stops at the first failed migration, completed ones stay applied
	* timestamp or sequential ids for created migrations
	* configuring using flags, config file, key value store, .env file or env variables
*/
package dbmigrate
