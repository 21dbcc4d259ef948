// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a validated Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are layered, highest precedence first:

 1. command-line flags that were actually given
 2. environment variables, after loading .env with godotenv
 3. the config file named by -c or CONFIG_FILE (.yaml, .yml or .toml)
 4. defaults

Configuration is read once at startup and never reloaded.

# Flags and Environment

	-p               PORT             Server port (default 3318)
	-d               DATABASE_URL     Database URL (not needed for memory)
	-t               DATABASE_TYPE    sqlite, postgres, pgx or memory (default sqlite)
	-auth-secret     AUTH_SECRET      Token signing secret (required)
	-cutoff          CUTOFF_HOUR      Hour the open window advances (default 21)
	-tz              TIME_ZONE        IANA zone for the cutoff (default Local)
	-retention-days  RETENTION_DAYS   Days of confirmations kept, 0 disables (default 30)
	-retention-cron  RETENTION_CRON   When the purge runs (default "30 3 * * *")
	-amqp            AMQP_URL         RabbitMQ URL for confirmation events
	-telegram-token  TELEGRAM_TOKEN   Bot token for kitchen notifications
	-kitchen-chat    KITCHEN_CHAT_ID  Chat that receives cutoff summaries
	-log-level       LOG_LEVEL        logrus level (default info)
	-env             ENVIRONMENT      development, staging or production

Config files use the snake_case names of the environment variables in lower
case, for example cutoff_hour and time_zone.

# Validation

ParseFlags returns an error when the cutoff hour is outside 0..23, the time
zone does not load, a required secret or URL is missing, or the retention
cron spec does not parse.
*/
package cliparse
