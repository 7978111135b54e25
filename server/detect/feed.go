package detect

import (
	"net/http"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type webSocketMsg int

const (
	webSocketMsgClosed webSocketMsg = iota // The websocket client has gone away
)

// Number of detections that we buffer per subscriber, before dropping
const feedSendBufferSize = 15

type feedClient struct {
	sendQueue     chan *model.Detection
	fromWebSocket chan webSocketMsg
}

// publishDetection sends det to every feed subscriber. Slow subscribers get
// drops, not backpressure: a stuck client must never delay detections.
func (s *DetectServer) publishDetection(det *model.Detection) {
	s.feedLock.Lock()
	defer s.feedLock.Unlock()
	now := time.Now()
	for _, c := range s.feedClients {
		select {
		case c.sendQueue <- det:
			s.nFeedSent++
		default:
			s.nFeedDropped++
			if now.Sub(s.lastDropMsg) > 5*time.Second {
				s.log.Infof("Dropped %v/%v detections to websocket subscribers", s.nFeedDropped, s.nFeedDropped+s.nFeedSent)
				s.lastDropMsg = now
			}
		}
	}
}

func (s *DetectServer) addFeedClient(c *feedClient) {
	s.feedLock.Lock()
	defer s.feedLock.Unlock()
	s.feedClients = append(s.feedClients, c)
}

func (s *DetectServer) removeFeedClient(c *feedClient) {
	s.feedLock.Lock()
	defer s.feedLock.Unlock()
	for i, x := range s.feedClients {
		if x == c {
			s.feedClients = append(s.feedClients[:i], s.feedClients[i+1:]...)
			break
		}
	}
}

// NumFeedClients returns the number of connected websocket subscribers.
func (s *DetectServer) NumFeedClients() int {
	s.feedLock.Lock()
	defer s.feedLock.Unlock()
	return len(s.feedClients)
}

// HttpFeed upgrades the connection to a websocket, and sends every new
// detection to the client as a JSON message, until the client goes away.
func (s *DetectServer) HttpFeed(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("HttpFeed websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	client := &feedClient{
		sendQueue:     make(chan *model.Detection, feedSendBufferSize),
		fromWebSocket: make(chan webSocketMsg, 1),
	}
	s.addFeedClient(client)
	defer s.removeFeedClient(client)

	go s.feedReader(client, conn)

	// We never close sendQueue, because publishers may still be holding it.
	// Dropping the client is enough; the GC does the rest.
	for {
		select {
		case det := <-client.sendQueue:
			if err := conn.WriteJSON(det); err != nil {
				s.log.Infof("Error writing to detection feed websocket: %v", err)
				return
			}
		case msg := <-client.fromWebSocket:
			if msg == webSocketMsgClosed {
				return
			}
		}
	}
}

// Read from the websocket and post to our own channel, so that HttpFeed can
// run a single loop that handles both new detections and the client closing.
func (s *DetectServer) feedReader(client *feedClient, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	client.fromWebSocket <- webSocketMsgClosed
}
