package sqlinline

const QInsertChatMessage = `--sql 369bbc3f-53d8-418c-97cd-b794fe0689dd
insert into chat_messages (id, user_id, message, sender, created_at)
values (gen_random_uuid(), nullif($1::text, '')::uuid, $2::text, $3::text, now())
returning id, created_at;
`

const QSelectChatMessages = `--sql c401cabc-f0ba-4cd0-92d5-c5f3e2e1a5e8
select id, user_id, message, sender, created_at
from (
    select id, coalesce(user_id::text, '') as user_id, message, sender, created_at
    from chat_messages
    order by created_at desc
    limit $1::int
) recent
order by created_at asc;
`
