// This file is part of vsivideo.
//
// vsivideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// vsivideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with vsivideo.  If not, see <https://www.gnu.org/licenses/>.

package transport

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"time"

	"github.com/jetsetilly/vsivideo/curated"
)

// the amount of time allowed for both sides to complete authentication
const authTimeout = 5 * time.Second

const challengeLength = 32

var (
	challengePrefix = []byte("#CHALLENGE#")
	welcome         = []byte("#WELCOME#")
	failure         = []byte("#FAILURE#")
)

func digest(key []byte, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// send a random challenge to the peer and check the response
func deliverChallenge(f framer, key []byte) error {
	message := make([]byte, challengeLength)
	if _, err := rand.Read(message); err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	if err := f.writeFrame(append(append([]byte{}, challengePrefix...), message...)); err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	response, err := f.readFrame()
	if err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	if !hmac.Equal(response, digest(key, message)) {
		_ = f.writeFrame(failure)
		return curated.Errorf(ErrAuthentication, "digest received was wrong")
	}

	if err := f.writeFrame(welcome); err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	return nil
}

// respond to a challenge sent by the peer
func answerChallenge(f framer, key []byte) error {
	message, err := f.readFrame()
	if err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	if !bytes.HasPrefix(message, challengePrefix) {
		return curated.Errorf(ErrAuthentication, "expected a challenge")
	}
	message = message[len(challengePrefix):]

	if err := f.writeFrame(digest(key, message)); err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	response, err := f.readFrame()
	if err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}

	if !bytes.Equal(response, welcome) {
		return curated.Errorf(ErrAuthentication, "digest sent was rejected")
	}

	return nil
}

// authenticate the connection from the point of view of the listening side
func authenticateServer(f framer, key []byte) error {
	if err := f.setDeadline(time.Now().Add(authTimeout)); err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}
	if err := deliverChallenge(f, key); err != nil {
		return err
	}
	if err := answerChallenge(f, key); err != nil {
		return err
	}
	return f.setDeadline(time.Time{})
}

// authenticate the connection from the point of view of the dialing side
func authenticateClient(f framer, key []byte) error {
	if err := f.setDeadline(time.Now().Add(authTimeout)); err != nil {
		return curated.Errorf(ErrAuthentication, err)
	}
	if err := answerChallenge(f, key); err != nil {
		return err
	}
	if err := deliverChallenge(f, key); err != nil {
		return err
	}
	return f.setDeadline(time.Time{})
}
