package sqlinline

const QStatsSummary = `--sql d5fc5669-c669-4b21-bfd0-7dcad8f4926b
select
  (select count(*) from projects where status = 'completed') as total_videos,
  (select count(*) from insta_posts) as total_insta_posts,
  (select count(*) from projects where has_custom_character and status = 'completed') as custom_characters;
`
