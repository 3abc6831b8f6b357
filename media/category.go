package media

// Target is the destination context of an upload.
type Target string

const (
	TargetTweet Target = "tweet"
	TargetDM    Target = "dm"
)

// Category is the media_category value sent with an upload. Values are the
// upload API's category names and are written as-is to responses and the
// manifest.
type Category string

const (
	CategoryTweetImage Category = "TweetImage"
	CategoryTweetGif   Category = "TweetGif"
	CategoryTweetVideo Category = "TweetVideo"
	CategoryDmImage    Category = "DmImage"
	CategoryDmGif      Category = "DmGif"
	CategoryDmVideo    Category = "DmVideo"
	CategorySubtitles  Category = "Subtitles"
)

// Classify maps a MIME type and target to a media category. Any target other
// than TargetTweet is treated as a direct message.
func Classify(m MimeType, target Target) Category {
	tweet := target == TargetTweet

	switch m {
	case MimeMp4, MimeMov:
		if tweet {
			return CategoryTweetVideo
		}
		return CategoryDmVideo
	case MimeGif:
		if tweet {
			return CategoryTweetGif
		}
		return CategoryDmGif
	case MimeSrt:
		return CategorySubtitles
	default:
		if tweet {
			return CategoryTweetImage
		}
		return CategoryDmImage
	}
}
