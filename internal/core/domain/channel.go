package domain

// Channel is the media channel a placement is sold on.
type Channel string

const (
	ChannelWeb        Channel = "web"
	ChannelNewsletter Channel = "newsletter"
	ChannelPrint      Channel = "print"
	ChannelRadio      Channel = "radio"
	ChannelPodcast    Channel = "podcast"
	ChannelSocial     Channel = "social"
	ChannelStreaming  Channel = "streaming"
	ChannelEvents     Channel = "events"
	ChannelOther      Channel = "other"
)

// IsDigital reports whether delivery on the channel is measured in served
// impressions. Digital placements get impression goals and feed the tracked
// impression base used for platform CPM fees.
func (c Channel) IsDigital() bool {
	switch c {
	case ChannelWeb, ChannelStreaming:
		return true
	default:
		return false
	}
}

// HasCounters reports whether the channel reports automated performance
// counters. Channels without counters are attributed from verified proofs.
func (c Channel) HasCounters() bool {
	switch c {
	case ChannelWeb, ChannelStreaming, ChannelNewsletter:
		return true
	default:
		return false
	}
}

// UnitNoun is the singular noun used when describing unit goals.
func (c Channel) UnitNoun() string {
	switch c {
	case ChannelNewsletter:
		return "send"
	case ChannelPrint:
		return "insertion"
	case ChannelRadio:
		return "spot"
	case ChannelPodcast:
		return "episode"
	case ChannelEvents:
		return "event"
	case ChannelSocial:
		return "post"
	default:
		return "unit"
	}
}
