package constants

const (
	MAX_ARTICLES_PER_BATCH        = 500
	MAX_SHARE_TARGETS_PER_REQUEST = 50
	MAX_PAGE_SIZE                 = 200
	DEFAULT_PAGE                  = 0
	DEFAULT_PAGE_SIZE             = 20
	DEFAULT_HOT_EVENTS_LIMIT      = 50
	DEFAULT_SLOT_ARTICLES_LIMIT   = 50
)
