package mysql

const createModerationActionsSQL = `
CREATE TABLE IF NOT EXISTS moderation_actions (
  id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  hotel_id   VARCHAR(64)     NOT NULL,
  action     VARCHAR(16)     NOT NULL,
  outcome    VARCHAR(16)     NOT NULL,
  detail     TEXT            NULL,
  created_at DATETIME(3)     NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  PRIMARY KEY (id),
  KEY idx_moderation_hotel (hotel_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertActionSQL = `
INSERT INTO moderation_actions
  (hotel_id, action, outcome, detail, created_at)
VALUES
  (?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP(3)))
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; id breaks ties between rows written in the same millisecond.
const recentActionsSQL = `
SELECT id, hotel_id, action, outcome, detail, created_at
FROM moderation_actions
ORDER BY created_at DESC, id DESC
LIMIT ?
`
